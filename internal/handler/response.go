package handler

import (
	"net/http"

	"github.com/codegate/gate-server-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codegate/gate-server-go/internal/httputil"
	"github.com/codegate/gate-server-go/internal/util"
)

type EventType string

const (
	EventCodeIssued        EventType = "code_issued"
	EventCodeRejected      EventType = "code_rejected"
	EventEntryServed       EventType = "entry_served"
	EventCodeRevoked       EventType = "code_revoked"
	EventReputationBlocked EventType = "reputation_blocked"
	EventReputationFailed  EventType = "reputation_failed"
)

type Event struct {
	Type      EventType
	Code      string
	Domain    string
	Path      string
	IP        string
	UserAgent string
	Details   map[string]interface{}
}

func Log(ctx context.Context, event Event) {
	logger := log.With().
		Str("audit", "gate").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.Code != "" {
		logger = logger.With().Str("code", event.Code).Logger()
	}
	if event.Domain != "" {
		logger = logger.With().Str("domain", event.Domain).Logger()
	}
	if event.Path != "" {
		logger = logger.With().Str("path", event.Path).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("gate audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	case time.Duration:
		return e.Dur(key, v)
	default:
		return e.Interface(key, v)
	}
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = httputil.ClientIP(r)
	event.UserAgent = r.UserAgent()
	if event.Path == "" {
		event.Path = util.MaskPath(r.URL.Path)
	}
	Log(r.Context(), event)
}

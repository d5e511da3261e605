package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "github.com/codegate/gate-server-go/internal/errors"
)

// ProtectedSite serves the gated content tree. Every lookup goes through an
// os.Root so no request can reach a file outside the content directory.
type ProtectedSite struct {
	root      *os.Root
	indexFile string
}

func NewProtectedSite(staticDir, indexFile string) (*ProtectedSite, error) {
	root, err := os.OpenRoot(staticDir)
	if err != nil {
		return nil, fmt.Errorf("open protected site root: %w", err)
	}
	return &ProtectedSite{
		root:      root,
		indexFile: indexFile,
	}, nil
}

func (s *ProtectedSite) Close() error {
	return s.root.Close()
}

// ServeEntry writes the entry document. An error means nothing was written.
func (s *ProtectedSite) ServeEntry(w http.ResponseWriter, r *http.Request) error {
	if err := s.serveFile(w, r, s.indexFile); err != nil {
		return apperrors.EntryUnavailable(err)
	}
	return nil
}

// IsEntry reports whether rel names the entry document.
func (s *ProtectedSite) IsEntry(rel string) bool {
	name := cleanAssetPath(rel)
	return name != "" && name == cleanAssetPath(filepath.ToSlash(s.indexFile))
}

// ServeAsset writes the file at rel, relative to the content root. Missing
// files, directories and paths escaping the root are all AssetNotFound.
func (s *ProtectedSite) ServeAsset(w http.ResponseWriter, r *http.Request, rel string) error {
	name := cleanAssetPath(rel)
	if name == "" {
		return apperrors.AssetNotFound(rel, nil)
	}
	if err := s.serveFile(w, r, name); err != nil {
		return apperrors.AssetNotFound(rel, err)
	}
	return nil
}

func (s *ProtectedSite) serveFile(w http.ResponseWriter, r *http.Request, name string) error {
	f, err := s.root.Open(filepath.FromSlash(name))
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return nil
}

// cleanAssetPath normalizes a URL sub-path into a root-relative slash path.
// Anything that still climbs upward after cleaning is rejected outright.
func cleanAssetPath(rel string) string {
	if strings.Contains(rel, "\x00") || strings.Contains(rel, "\\") {
		return ""
	}
	cleaned := path.Clean("/" + rel)
	return strings.TrimPrefix(cleaned, "/")
}

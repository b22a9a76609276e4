package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/koustreak/pgmeta/internal/errs"
	"github.com/koustreak/pgmeta/internal/logger"
	"github.com/koustreak/pgmeta/internal/snapshot"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.log.Warn("health check failed", logger.Fields{"error": err.Error()})
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) tables(w http.ResponseWriter, r *http.Request) {
	format, err := snapshot.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tables, err := s.fetcher.Fetch(r.Context(), s.schemas(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Encode fully before writing so an encoding failure still gets a status.
	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, tables, format); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) publish(w http.ResponseWriter, r *http.Request) {
	opts := s.opts.Publish
	if f := r.URL.Query().Get("format"); f != "" {
		format, err := snapshot.ParseFormat(f)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Format = format
	}
	opts.Schemas = s.schemas(r)

	tables, err := s.fetcher.Fetch(r.Context(), opts.Schemas)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := snapshot.Publish(r.Context(), s.opts.Store, opts, tables)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("snapshot published", logger.Fields{"key": res.Key, "tables": len(tables)})
	s.writeJSON(w, http.StatusCreated, res)
}

type snapshotEntry struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
}

func (s *Server) snapshots(w http.ResponseWriter, r *http.Request) {
	objs, err := snapshot.List(r.Context(), s.opts.Store, s.opts.Publish.Bucket, s.opts.Publish.Prefix, s.schemas(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]snapshotEntry, 0, len(objs))
	for _, o := range objs {
		out = append(out, snapshotEntry{
			Key:          o.Key,
			Size:         o.Size,
			LastModified: o.LastModified.UTC().Format(time.RFC3339),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// schemas reads ?schema=a&schema=b; comma lists are accepted too.
func (s *Server) schemas(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["schema"] {
		for _, name := range strings.Split(v, ",") {
			out = append(out, strings.TrimSpace(name))
		}
	}
	if len(out) == 0 {
		return s.opts.DefaultSchemas
	}
	return out
}

// statusFor maps an error kind to the response status.
func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindInvalidInput:
		return http.StatusBadRequest
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindDataIntegrity:
		return http.StatusUnprocessableEntity
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrKindConnectionFailed, errs.ErrKindQueryFailed, errs.ErrKindPermissionDenied:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", err, logger.Fields{"path": r.URL.Path, "status": status})
	}
	s.writeJSON(w, status, map[string]string{
		"error":   errs.KindOf(err).String(),
		"message": err.Error(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", err)
	}
}

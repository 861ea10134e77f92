// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import "net/http"

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.source.Snapshot())
}

func (s *Server) handleQuirks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rules": s.quirks.Rules()})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.reloader.Reload(r.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("config reload via api failed")
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

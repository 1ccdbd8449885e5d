package web

import (
	"encoding/json"
	"net/http"

	"github.com/ivlev/storyreel/internal/system"
)

type healthResponse struct {
	Status   string           `json:"status"`
	Slides   int              `json:"slides"`
	Sessions int              `json:"sessions"`
	Host     system.HostStats `json:"host"`
}

// handleHealth always answers 200; a server without content reports
// status "no_content".
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Sessions: s.sessions.len(),
		Host:     system.ReadHostStats(),
	}
	if s.story == nil {
		resp.Status = "no_content"
	} else {
		resp.Slides = len(s.story.Slides)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"workers":     s.orchestrator.Workers(),
		"latency":     s.orchestrator.Latency(),
		"jobs":        s.orchestrator.JobCount(),
		"engine":      s.orchestrator.EngineOptions(),
	})
}

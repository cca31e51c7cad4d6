package api

import (
	"encoding/json"
	"net/http"
	"time"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth":    s.orchestrator.QueueDepth(),
		"worker_count":   s.cfg.WorkerCount,
		"max_queue_size": s.cfg.MaxQueueSize,
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	})
}

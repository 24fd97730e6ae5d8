package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avelin-media/photovault/workers"
)

// ExtractionHandler exposes the bulk extraction trigger.
type ExtractionHandler struct {
	Queue *workers.ExtractionQueue
}

type queueAllRequest struct {
	Force bool `json:"force"`
}

// QueueAll enqueues a bulk-queue job that schedules per-asset extraction for
// the whole library (force) or only for assets lacking metadata.
func (h *ExtractionHandler) QueueAll(w http.ResponseWriter, r *http.Request) {
	var req queueAllRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON with an optional 'force' flag")
			return
		}
	}

	queued := h.Queue.Enqueue(workers.Job{Kind: workers.JobQueueAll, Force: req.Force})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]bool{"queued": queued})
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"xmute/mutehub/internal/service"
	"xmute/mutehub/pkg/response"
)

// DispositionHandler is the entry point for the discovery client: it reports
// observed usernames and navigation events.
type DispositionHandler struct {
	disposition service.DispositionService
}

func NewDispositionHandler(disposition service.DispositionService) *DispositionHandler {
	return &DispositionHandler{disposition: disposition}
}

type ProcessUserRequest struct {
	Username string `json:"username" binding:"required"`
	Source   string `json:"source"`
}

// ProcessUser kicks off the disposition pipeline for one username and
// returns immediately; the discovery client does not wait for the outcome.
func (h *DispositionHandler) ProcessUser(c *gin.Context) {
	var req ProcessUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	// Detached from the request context: the pipeline outlives the HTTP call.
	go h.disposition.ProcessUser(context.Background(), req.Username, req.Source)

	response.Accepted(c, gin.H{"username": req.Username})
}

// ResetPipeline drops all pending upstream requests. The discovery client
// calls this on page navigation, when queued lookups are for users no longer
// on screen.
func (h *DispositionHandler) ResetPipeline(c *gin.Context) {
	h.disposition.Reset()
	response.Success(c, nil)
}

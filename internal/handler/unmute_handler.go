package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"xmute/mutehub/internal/service"
	"xmute/mutehub/pkg/response"
)

type UnmuteHandler struct {
	manager *service.UnmuteManager
}

func NewUnmuteHandler(manager *service.UnmuteManager) *UnmuteHandler {
	return &UnmuteHandler{manager: manager}
}

type StartUnmuteRequest struct {
	Mode string `json:"mode" binding:"required"`
}

func (h *UnmuteHandler) Start(c *gin.Context) {
	var req StartUnmuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	mode, err := service.ParseUnmuteMode(req.Mode)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	jobID, err := h.manager.Start(mode)
	if err != nil {
		if errors.Is(err, service.ErrJobAlreadyRunning) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, "start unmute job failed")
		return
	}

	response.Accepted(c, gin.H{"job_id": jobID})
}

func (h *UnmuteHandler) Status(c *gin.Context) {
	status, err := h.manager.Status(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "get job status failed")
		return
	}

	response.Success(c, status)
}

func (h *UnmuteHandler) Cancel(c *gin.Context) {
	if err := h.manager.Cancel(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "cancel job failed")
		return
	}

	response.Success(c, nil)
}

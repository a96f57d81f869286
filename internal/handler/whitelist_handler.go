package handler

import (
	"github.com/gin-gonic/gin"

	"xmute/mutehub/internal/service"
	"xmute/mutehub/pkg/response"
)

type WhitelistHandler struct {
	whitelist service.WhitelistService
}

func NewWhitelistHandler(whitelist service.WhitelistService) *WhitelistHandler {
	return &WhitelistHandler{whitelist: whitelist}
}

func (h *WhitelistHandler) List(c *gin.Context) {
	users, err := h.whitelist.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, "list whitelist failed")
		return
	}
	response.Success(c, users)
}

type AddWhitelistRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Username string `json:"username" binding:"required"`
}

func (h *WhitelistHandler) Add(c *gin.Context) {
	var req AddWhitelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.whitelist.Add(c.Request.Context(), req.UserID, req.Username); err != nil {
		response.InternalError(c, "add to whitelist failed")
		return
	}
	response.Success(c, nil)
}

func (h *WhitelistHandler) Remove(c *gin.Context) {
	if err := h.whitelist.Remove(c.Request.Context(), c.Param("user_id")); err != nil {
		response.InternalError(c, "remove from whitelist failed")
		return
	}
	response.Success(c, nil)
}

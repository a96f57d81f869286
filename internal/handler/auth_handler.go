package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"xmute/mutehub/internal/service"
	"xmute/mutehub/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type TokenRequest struct {
	AdminSecret string `json:"admin_secret" binding:"required"`
}

func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	token, err := h.authService.IssueToken(req.AdminSecret)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAdminSecret) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c, "issue token failed")
		return
	}

	response.Success(c, gin.H{"access_token": token})
}

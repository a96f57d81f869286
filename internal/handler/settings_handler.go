package handler

import (
	"github.com/gin-gonic/gin"

	"xmute/mutehub/internal/service"
	"xmute/mutehub/pkg/response"
)

type SettingsHandler struct {
	settings  service.SettingsService
	blacklist service.BlacklistService
}

func NewSettingsHandler(settings service.SettingsService, blacklist service.BlacklistService) *SettingsHandler {
	return &SettingsHandler{settings: settings, blacklist: blacklist}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c, "read settings failed")
		return
	}
	response.Success(c, settings)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var patch service.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), patch)
	if err != nil {
		response.InternalError(c, "update settings failed")
		return
	}
	response.Success(c, settings)
}

func (h *SettingsHandler) GetBlacklist(c *gin.Context) {
	countries, err := h.blacklist.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c, "read blacklist failed")
		return
	}
	response.Success(c, countries)
}

type UpdateBlacklistRequest struct {
	Countries []string `json:"countries"`
}

func (h *SettingsHandler) UpdateBlacklist(c *gin.Context) {
	var req UpdateBlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.blacklist.Set(c.Request.Context(), req.Countries); err != nil {
		response.InternalError(c, "update blacklist failed")
		return
	}
	response.Success(c, req.Countries)
}

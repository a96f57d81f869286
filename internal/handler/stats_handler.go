package handler

import (
	"github.com/gin-gonic/gin"

	"xmute/mutehub/internal/service"
	"xmute/mutehub/pkg/response"
)

type StatsHandler struct {
	stats service.StatsService
}

func NewStatsHandler(stats service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.stats.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c, "get stats failed")
		return
	}
	response.Success(c, stats)
}

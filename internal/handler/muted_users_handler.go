package handler

import (
	"github.com/gin-gonic/gin"

	"xmute/mutehub/internal/repository"
	"xmute/mutehub/internal/service"
	"xmute/mutehub/pkg/response"
)

type MutedUsersHandler struct {
	mutedRepo repository.MutedUserRepository
	export    service.ExportService
}

func NewMutedUsersHandler(mutedRepo repository.MutedUserRepository, export service.ExportService) *MutedUsersHandler {
	return &MutedUsersHandler{mutedRepo: mutedRepo, export: export}
}

func (h *MutedUsersHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if country := c.Query("country"); country != "" {
		users, err := h.mutedRepo.ListByCountry(ctx, country)
		if err != nil {
			response.InternalError(c, "list muted users failed")
			return
		}
		response.Success(c, users)
		return
	}

	users, err := h.mutedRepo.List(ctx)
	if err != nil {
		response.InternalError(c, "list muted users failed")
		return
	}
	response.Success(c, users)
}

// Delete removes the local record only; it does not unmute the user
// upstream. Used as cleanup after an external unmute.
func (h *MutedUsersHandler) Delete(c *gin.Context) {
	userID := c.Param("user_id")
	if err := h.mutedRepo.Delete(c.Request.Context(), userID); err != nil {
		response.InternalError(c, "delete muted user failed")
		return
	}
	response.Success(c, nil)
}

func (h *MutedUsersHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="muted-users.csv"`)
	if err := h.export.WriteCSV(c.Request.Context(), c.Writer); err != nil {
		response.InternalError(c, "export failed")
		return
	}
}

package staff

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"callportal-backend/internal/shared/server/middleware"
	"callportal-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	if isGuest, ok := c.Get("isGuest"); ok {
		if guest, ok2 := isGuest.(bool); ok2 && guest {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return
		}
	}
	staffID := middleware.StaffIDFromContext(c)
	member, err := h.Svc.GetByID(c.Request.Context(), staffID)
	if err != nil {
		if err == ErrNotFound {
			respond.Error(c, http.StatusNotFound, "not_found", "staff member not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load staff member", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"id":         member.ID,
		"email":      member.Email,
		"fullName":   member.FullName,
		"pictureUrl": member.PictureURL,
	})
}

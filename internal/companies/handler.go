package companies

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"callportal-backend/internal/candidates"
	"callportal-backend/internal/shared/server/respond"
)

// SummarySource computes the per-company dashboard counts.
type SummarySource interface {
	CompanySummary(ctx context.Context, companyID string, date, today time.Time) (candidates.CompanySummary, error)
}

type Handler struct {
	Svc       *Service
	Summaries SummarySource
}

func NewHandler(svc *Service, summaries SummarySource) *Handler {
	return &Handler{Svc: svc, Summaries: summaries}
}

// RegisterRoutes attaches company routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/companies", h.list)
	rg.POST("/companies", h.create)
	rg.GET("/companies/:companyId/dashboard", h.dashboard)
}

// list is the portal landing view: every company with its dashboard
// counts for the selected date.
func (h *Handler) list(c *gin.Context) {
	date, today := selectedDate(c)

	comps, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list companies", nil)
		return
	}

	resp := make([]gin.H, 0, len(comps))
	for _, company := range comps {
		item := gin.H{
			"companyId": company.ID,
			"name":      company.Name,
		}
		summary, err := h.Summaries.CompanySummary(c.Request.Context(), company.ID, date, today)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to aggregate dashboard", nil)
			return
		}
		item["summary"] = summary
		resp = append(resp, item)
	}

	respond.OK(c, gin.H{
		"selectedDate": date.Format("2006-01-02"),
		"companies":    resp,
	})
}

type createRequest struct {
	Name string `json:"name"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	company, err := h.Svc.Create(c.Request.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicate):
			respond.Error(c, http.StatusConflict, "duplicate", "company name already registered", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, company)
}

func (h *Handler) dashboard(c *gin.Context) {
	company, err := h.Svc.GetByID(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "company not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load company", nil)
		return
	}

	date, today := selectedDate(c)
	summary, err := h.Summaries.CompanySummary(c.Request.Context(), company.ID, date, today)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to aggregate dashboard", nil)
		return
	}

	respond.OK(c, gin.H{
		"companyId": company.ID,
		"name":      company.Name,
		"summary":   summary,
	})
}

// selectedDate reads ?date=YYYY-MM-DD, falling back to today on a
// missing or unparsable value.
func selectedDate(c *gin.Context) (date, today time.Time) {
	today = time.Now()
	date = today
	if raw := c.Query("date"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			date = parsed
		}
	}
	return date, today
}

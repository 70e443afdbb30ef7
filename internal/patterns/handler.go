package patterns

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"callportal-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches pattern and call-result routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/companies/:companyId/pattern", h.get)
	rg.PUT("/companies/:companyId/pattern", h.save)
	rg.GET("/call-results", h.listCallResults)
	rg.POST("/call-results", h.createCallResult)
}

func (h *Handler) get(c *gin.Context) {
	pattern, err := h.Svc.PatternFor(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no pattern registered for company", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load pattern", nil)
		return
	}
	respond.OK(c, pattern)
}

type saveRequest struct {
	Items []PatternItem `json:"items"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	pattern, err := h.Svc.SavePattern(c.Request.Context(), c.Param("companyId"), req.Items)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save pattern", nil)
		return
	}
	respond.OK(c, pattern)
}

func (h *Handler) listCallResults(c *gin.Context) {
	results, err := h.Svc.ListCallResults(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list call results", nil)
		return
	}
	resp := make([]gin.H, 0, len(results))
	for _, result := range results {
		resp = append(resp, gin.H{
			"callResultId": result.ID,
			"name":         result.Name,
			"results":      result.ResultList(),
		})
	}
	respond.OK(c, resp)
}

type createCallResultRequest struct {
	Name    string `json:"name"`
	Results string `json:"results"`
}

func (h *Handler) createCallResult(c *gin.Context) {
	var req createCallResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.CreateCallResult(c.Request.Context(), req.Name, req.Results)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create call result", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, result)
}

package importer

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"callportal-backend/internal/candidates"
	"callportal-backend/internal/companies"
	"callportal-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler exposes the CSV surfaces: batch import, template download,
// and filtered export.
type Handler struct {
	Svc        *Service
	Companies  *companies.Service
	Candidates *candidates.Service
}

func NewHandler(svc *Service, companySvc *companies.Service, candidateSvc *candidates.Service) *Handler {
	return &Handler{Svc: svc, Companies: companySvc, Candidates: candidateSvc}
}

// RegisterRoutes attaches the CSV routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/companies/:companyId/import", h.upload)
	rg.GET("/companies/:companyId/template", h.template)
	rg.GET("/companies/:companyId/export", h.export)
}

func (h *Handler) upload(c *gin.Context) {
	c.Set("companyId", c.Param("companyId"))
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	created, err := h.Svc.Import(c.Request.Context(), c.Param("companyId"), fileHeader.Filename, raw)
	if err != nil {
		var rowErr *RowError
		switch {
		case errors.As(err, &rowErr):
			respond.Error(c, http.StatusBadRequest, "invalid_row", rowErr.Error(), gin.H{
				"row":   rowErr.Row,
				"field": rowErr.Field,
			})
		case errors.Is(err, ErrBadEncoding):
			respond.Error(c, http.StatusBadRequest, "bad_encoding", err.Error(), nil)
		case errors.Is(err, companies.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "company not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import candidates", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{"created": created})
}

func (h *Handler) template(c *gin.Context) {
	company, err := h.Companies.GetByID(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		if errors.Is(err, companies.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "company not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load company", nil)
		return
	}

	sendCSV(c, fmt.Sprintf("%s_template.csv", company.Name), TemplateCSV(company.Name))
}

func (h *Handler) export(c *gin.Context) {
	company, err := h.Companies.GetByID(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		if errors.Is(err, companies.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "company not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load company", nil)
		return
	}

	q := candidates.ListQuery{Filter: candidates.Filter{
		CompanyID:  company.ID,
		Progress:   candidates.ProgressFilter(c.Query("progress")),
		MajorClass: c.Query("major_class"),
		MinorClass: c.Query("minor_class"),
		Search:     c.Query("q"),
	}}
	if raw := c.Query("call_date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "call_date must be YYYY-MM-DD", nil)
			return
		}
		q.CallDate = &d
	}

	cands, err := h.Candidates.List(c.Request.Context(), q)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export candidates", nil)
		return
	}

	sendCSV(c, fmt.Sprintf("%s_candidates.csv", company.Name), ExportCSV(company.Name, cands))
}

func sendCSV(c *gin.Context, fileName string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "text/csv; charset=cp932", body)
}

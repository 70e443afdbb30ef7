package convert

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"callportal-backend/internal/importer"
	"callportal-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/convert/formats", h.formats)
	rg.POST("/convert", h.convert)
}

func (h *Handler) formats(c *gin.Context) {
	out := make([]gin.H, 0, len(Formats))
	for _, f := range Formats {
		out = append(out, gin.H{"id": f.ID, "label": f.Label})
	}
	c.JSON(http.StatusOK, gin.H{"formats": out})
}

func (h *Handler) convert(c *gin.Context) {
	format := c.PostForm("format")
	if format == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "format is required", nil)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadSize {
		respond.Error(c, http.StatusBadRequest, "file_too_large", "file exceeds the upload limit", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read file", nil)
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read file", nil)
		return
	}

	converted, err := Convert(format, raw)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownFormat):
			respond.Error(c, http.StatusBadRequest, "unknown_format", "unsupported source format", nil)
		case errors.Is(err, importer.ErrBadEncoding):
			respond.Error(c, http.StatusBadRequest, "bad_encoding", "file is neither UTF-8 nor Shift_JIS", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "invalid_file", err.Error(), nil)
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="converted.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", converted)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type timetableRenderer interface {
	Render(schedule *models.StudentTimetable, format string) (*service.ExportedFile, error)
}

// TimetableExportHandler serves printable timetables.
type TimetableExportHandler struct {
	query    queryService
	renderer timetableRenderer
	terms    termCatalog
}

// NewTimetableExportHandler constructs the handler.
func NewTimetableExportHandler(query queryService, renderer timetableRenderer, terms termCatalog) *TimetableExportHandler {
	return &TimetableExportHandler{query: query, renderer: renderer, terms: terms}
}

// Download godoc
// @Summary Download a printable timetable
// @Tags Timetable
// @Produce text/csv,application/pdf
// @Param id query string true "Student code, or a name matching one student"
// @Param format query string false "csv, or pdf when a PDF font is configured" default(csv)
// @Param semester query string false "Term, e.g. 2023-2024-1"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope "unsupported format"
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope "name matches several students"
// @Router /timetable/export [get]
func (h *TimetableExportHandler) Download(c *gin.Context) {
	token := pickQuery(c, "id")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id is required"))
		return
	}
	format := pickQuery(c, "format")
	if format == "" {
		format = service.FormatCSV
	}

	result, err := h.query.Resolve(c.Request.Context(), token, requestTerm(c, h.terms))
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Kind == models.QueryKindDisambiguation {
		response.Error(c, appErrors.ErrAmbiguous)
		return
	}

	file, err := h.renderer.Render(result.Schedule, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.ContentType, file.Filename, file.Body)
}

package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type calendarExporter interface {
	Export(ctx context.Context, code, name string, tt *models.Timetable, term models.Term) (*models.CalendarDocument, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// CalendarHandler exports timetables as calendar documents and serves them.
type CalendarHandler struct {
	query     queryService
	calendar  calendarExporter
	terms     termCatalog
	validator *validator.Validate
}

// NewCalendarHandler constructs the handler. validate must know the "term" tag.
func NewCalendarHandler(query queryService, calendar calendarExporter, terms termCatalog, validate *validator.Validate) *CalendarHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &CalendarHandler{query: query, calendar: calendar, terms: terms, validator: validate}
}

// Export godoc
// @Summary Export a timetable as an iCalendar document
// @Description Regenerates and stores the calendar of a student, replacing any earlier export for the same term.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body dto.CalendarExportRequest true "Student and term"
// @Success 200 {object} response.Envelope{data=dto.CalendarExportResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /calendar [post]
func (h *CalendarHandler) Export(c *gin.Context) {
	var req dto.CalendarExportRequest
	var bindErr error
	if c.Request.Method == http.MethodGet {
		bindErr = c.ShouldBindQuery(&req)
	} else {
		bindErr = c.ShouldBindJSON(&req)
	}
	if bindErr != nil {
		response.Error(c, appErrors.Wrap(bindErr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar request"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar request"))
		return
	}

	term := requestTerm(c, h.terms)
	if req.Semester != "" {
		term = h.terms.Resolve(req.Semester)
	}

	result, err := h.query.Resolve(c.Request.Context(), req.ID, term)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Kind == models.QueryKindDisambiguation {
		response.JSON(c, http.StatusOK, dto.CalendarExportResponse{
			Kind:       result.Kind,
			Term:       term,
			Candidates: result.Candidates,
		})
		return
	}

	student := result.Schedule.Student
	doc, err := h.calendar.Export(c.Request.Context(), student.Code, student.Name, result.Schedule.Timetable, term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CalendarExportResponse{
		Kind:       models.QueryKindTimetable,
		Term:       term,
		Key:        doc.Key,
		URL:        doc.URL,
		Student:    &student,
		EventCount: len(doc.Events),
		Events:     doc.Events,
	})
}

// Download godoc
// @Summary Download a stored calendar document
// @Tags Calendar
// @Produce text/calendar
// @Param file path string true "Document key, e.g. 2023150101-23-24-1.ics"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /calendars/{file} [get]
func (h *CalendarHandler) Download(c *gin.Context) {
	key := c.Param("file")
	rc, err := h.calendar.Open(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "no-cache")
	c.DataFromReader(http.StatusOK, -1, service.CalendarContentType, rc, map[string]string{
		"Content-Disposition": "inline; filename=\"" + key + "\"",
	})
}

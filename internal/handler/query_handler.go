package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type queryService interface {
	Resolve(ctx context.Context, token string, term models.Term) (*models.QueryResult, error)
	AnalyzeFreeSlots(tt *models.Timetable) models.FreeSlotFacts
}

// QueryHandler serves timetable lookups by student code or name.
type QueryHandler struct {
	query queryService
	terms termCatalog
}

// NewQueryHandler constructs the handler.
func NewQueryHandler(query queryService, terms termCatalog) *QueryHandler {
	return &QueryHandler{query: query, terms: terms}
}

// Query godoc
// @Summary Look up a timetable
// @Description Resolves a student code or name. A name shared by several students returns the candidates instead of a timetable.
// @Tags Timetable
// @Produce json
// @Param id query string true "Student code or name"
// @Param semester query string false "Term, e.g. 2023-2024-1"
// @Success 200 {object} response.Envelope{data=dto.QueryResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /query [get]
func (h *QueryHandler) Query(c *gin.Context) {
	token := pickQuery(c, "id")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id is required"))
		return
	}
	term := requestTerm(c, h.terms)

	result, err := h.query.Resolve(c.Request.Context(), token, term)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.QueryResponse{Kind: result.Kind, Term: term, Terms: h.terms.Options(term)}
	if result.Kind == models.QueryKindDisambiguation {
		resp.Candidates = result.Candidates
	} else {
		facts := h.query.AnalyzeFreeSlots(result.Schedule.Timetable)
		resp.Student = &result.Schedule.Student
		resp.Timetable = result.Schedule.Timetable
		resp.FreeSlots = &facts
	}
	response.JSON(c, http.StatusOK, resp)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type classmatesService interface {
	ListClassmates(ctx context.Context, sectionID string, term models.Term) (*models.Classmates, error)
}

// ClassmatesHandler serves section rosters.
type ClassmatesHandler struct {
	schedule classmatesService
	terms    termCatalog
}

// NewClassmatesHandler constructs the handler.
func NewClassmatesHandler(schedule classmatesService, terms termCatalog) *ClassmatesHandler {
	return &ClassmatesHandler{schedule: schedule, terms: terms}
}

// List godoc
// @Summary List the students of a class section
// @Tags Timetable
// @Produce json
// @Param class_id query string true "Class section ID"
// @Param semester query string false "Term, e.g. 2023-2024-1"
// @Success 200 {object} response.Envelope{data=dto.ClassmatesResponse}
// @Failure 404 {object} response.Envelope "NO_CLASS or NO_STUDENT"
// @Router /classmates [get]
func (h *ClassmatesHandler) List(c *gin.Context) {
	term := requestTerm(c, h.terms)
	classmates, err := h.schedule.ListClassmates(c.Request.Context(), pickQuery(c, "class_id", "classId"), term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ClassmatesResponse{
		Term:         classmates.Term,
		Section:      classmates.Section,
		StudentCount: len(classmates.Students),
		Students:     classmates.Students,
	})
}

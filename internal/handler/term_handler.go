package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

// TermHandler serves the term selector.
type TermHandler struct {
	terms termCatalog
}

// NewTermHandler constructs the handler.
func NewTermHandler(terms termCatalog) *TermHandler {
	return &TermHandler{terms: terms}
}

// List godoc
// @Summary List selectable terms
// @Tags Terms
// @Produce json
// @Param semester query string false "Term to mark as selected"
// @Success 200 {object} response.Envelope{data=dto.TermsResponse}
// @Router /terms [get]
func (h *TermHandler) List(c *gin.Context) {
	current := requestTerm(c, h.terms)
	response.JSON(c, http.StatusOK, dto.TermsResponse{Current: current, Terms: h.terms.Options(current)})
}

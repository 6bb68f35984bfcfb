package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

type termCatalog interface {
	Default() models.Term
	Resolve(raw string) models.Term
	Options(selected models.Term) []models.TermOption
}

// requestTerm returns the term chosen by the term middleware, or the
// catalog default when the middleware did not run.
func requestTerm(c *gin.Context, terms termCatalog) models.Term {
	if term, ok := middleware.TermFromContext(c); ok {
		return term
	}
	return terms.Default()
}

// pickQuery returns the first non-empty query parameter among keys.
func pickQuery(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			return v
		}
	}
	return ""
}

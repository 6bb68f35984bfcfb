package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
)

// ContextTermKey is the gin context key holding the request's models.Term.
const ContextTermKey = "term"

// TermHeader lets API clients choose a term without a query parameter.
const TermHeader = "X-Term"

type termResolver interface {
	Resolve(raw string) models.Term
}

// Term resolves the term a request targets from the "semester" query
// parameter, then the X-Term header, falling back to the default term.
func Term(resolver termResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("semester")
		if raw == "" {
			raw = c.GetHeader(TermHeader)
		}
		term := resolver.Resolve(raw)
		c.Set(ContextTermKey, term)
		c.Set(logger.TermKey, term.String())
		c.Next()
	}
}

// TermFromContext returns the term stored by Term.
func TermFromContext(c *gin.Context) (models.Term, bool) {
	value, exists := c.Get(ContextTermKey)
	if !exists {
		return models.Term{}, false
	}
	term, ok := value.(models.Term)
	return term, ok && !term.IsZero()
}

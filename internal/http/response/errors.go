package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/partvault-backend/internal/domain/aggregates"
)

// AggregateError translates an aggregate failure into the wire status for its
// code. Unknown codes fall through to 500.
func AggregateError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	Error(c, statusFor(code), string(code), err)
}

func statusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusUnprocessableEntity
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict,
		domainagg.CodeSelfReference,
		domainagg.CodeCircularReference,
		domainagg.CodeInvariantViolation:
		return http.StatusConflict
	case domainagg.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

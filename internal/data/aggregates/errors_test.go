package aggregates

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/partvault-backend/internal/domain/aggregates"
)

func TestMapError_NilPassesThrough(t *testing.T) {
	if MapError("op", nil) != nil {
		t.Fatalf("expected nil")
	}
}

func TestMapError_AggregateErrorPassesThrough(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeNotFound, "op", "missing", nil)
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected the original error back, got %v", out)
	}
}

func TestMapError_SentinelTags(t *testing.T) {
	cases := []struct {
		err  error
		want domainagg.ErrorCode
	}{
		{ValidationError("bad input"), domainagg.CodeValidation},
		{InvariantError("broken rule"), domainagg.CodeInvariantViolation},
		{ConflictError("already applied"), domainagg.CodeConflict},
		{RetryableError("try again"), domainagg.CodeRetryable},
		{SelfReferenceError("self edge"), domainagg.CodeSelfReference},
		{CircularReferenceError("cycle"), domainagg.CodeCircularReference},
	}
	for _, c := range cases {
		got := MapError("op", c.err)
		if !domainagg.IsCode(got, c.want) {
			t.Fatalf("expected code %s for %v, got %v", c.want, c.err, got)
		}
	}
}

func TestMapError_PostgresCodes(t *testing.T) {
	cases := []struct {
		code string
		want domainagg.ErrorCode
	}{
		{"23505", domainagg.CodeConflict},
		{"23503", domainagg.CodePreconditionFailed},
		{"40001", domainagg.CodeRetryable},
		{"40P01", domainagg.CodeRetryable},
		{"55P03", domainagg.CodeRetryable},
	}
	for _, c := range cases {
		got := MapError("op", &pgconn.PgError{Code: c.code})
		if !domainagg.IsCode(got, c.want) {
			t.Fatalf("expected code %s for pg %s, got %v", c.want, c.code, got)
		}
	}
}

func TestMapError_GormNotFound(t *testing.T) {
	got := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(got, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", got)
	}
}

func TestMapError_ContextCancellationIsRetryable(t *testing.T) {
	if got := MapError("op", context.Canceled); !domainagg.IsCode(got, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable for canceled context, got %v", got)
	}
	if got := MapError("op", context.DeadlineExceeded); !domainagg.IsCode(got, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable for deadline, got %v", got)
	}
}

func TestMapError_MessageSniffing(t *testing.T) {
	if got := MapError("op", errors.New("ERROR: duplicate key value violates unique constraint")); !domainagg.IsCode(got, domainagg.CodeConflict) {
		t.Fatalf("expected conflict, got %v", got)
	}
	if got := MapError("op", errors.New("deadlock detected")); !domainagg.IsCode(got, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable, got %v", got)
	}
	if got := MapError("op", errors.New("disk exploded")); !domainagg.IsCode(got, domainagg.CodeInternal) {
		t.Fatalf("expected internal, got %v", got)
	}
}

package aggregates

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
	"github.com/yungbote/partvault-backend/internal/pkg/envutil"
	"gorm.io/gorm"
)

// LockGuard bounds how long a write transaction may wait on a row lock.
// Applied as SET LOCAL so the setting dies with the transaction; a timed-out
// wait surfaces as 55P03 and maps to a retryable code.
type LockGuard struct {
	timeout time.Duration
}

const defaultLockTimeout = 5000 * time.Millisecond

// NewLockGuard builds a guard with the given wait bound; zero falls back to
// the LOCK_TIMEOUT_MS env or the 5000ms default.
func NewLockGuard(timeout time.Duration) LockGuard {
	if timeout <= 0 {
		ms := envutil.Int("LOCK_TIMEOUT_MS", int(defaultLockTimeout/time.Millisecond))
		if ms <= 0 {
			ms = int(defaultLockTimeout / time.Millisecond)
		}
		timeout = time.Duration(ms) * time.Millisecond
	}
	return LockGuard{timeout: timeout}
}

// ApplyTxLockTimeout issues SET LOCAL lock_timeout inside the transaction.
// Outside a transaction there is nothing to scope the setting to, so it
// no-ops; injected test runners hand out tx-less contexts.
func (g LockGuard) ApplyTxLockTimeout(dbc dbctx.Context) error {
	if dbc.Tx == nil {
		return nil
	}
	timeout := g.timeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())
	return dbc.Tx.WithContext(dbc.Ctx).Exec(stmt).Error
}

// CASGuard provides optimistic/concurrency guard helpers for aggregate writes.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx), nil
	}
	if g.db != nil {
		return g.db.WithContext(dbc.Ctx), nil
	}
	return nil, ValidationError("missing db transaction context")
}

// UpdateByStatus updates a row only when id plus a status-column guard match.
func (g CASGuard) UpdateByStatus(dbc dbctx.Context, table, statusColumn string, id uuid.UUID, allowedStatuses []string, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	statusColumn = strings.TrimSpace(statusColumn)
	if table == "" || statusColumn == "" || id == uuid.Nil {
		return false, ValidationError("table, statusColumn and id are required for UpdateByStatus")
	}
	if len(allowedStatuses) == 0 {
		return false, ValidationError("allowedStatuses must not be empty")
	}
	res := db.Table(table).
		Where(fmt.Sprintf("id = ? AND %s IN ?", statusColumn), id, allowedStatuses).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequireCASSuccess converts a failed compare-and-set into a typed conflict error.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}

// RequireStatusAllowed validates current status against allowed values.
func RequireStatusAllowed(current string, allowed ...string) error {
	current = strings.TrimSpace(current)
	if len(allowed) == 0 {
		return ValidationError("allowed statuses cannot be empty")
	}
	for _, s := range allowed {
		if strings.EqualFold(current, strings.TrimSpace(s)) {
			return nil
		}
	}
	return ConflictError("status transition not allowed")
}

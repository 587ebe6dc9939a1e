package parts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/partvault-backend/internal/domain"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

type PartRepo interface {
	Create(dbc dbctx.Context, row *types.Part) (*types.Part, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Part, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Part, error)

	// LockByID acquires FOR UPDATE on the part row; requires dbc.Tx.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Part, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) error
}

type partRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPartRepo(db *gorm.DB, baseLog *logger.Logger) PartRepo {
	return &partRepo{db: db, log: baseLog.With("repo", "PartRepo")}
}

func (r *partRepo) Create(dbc dbctx.Context, row *types.Part) (*types.Part, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil, fmt.Errorf("missing row")
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *partRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Part, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Part
	err := t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *partRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Part, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Part
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *partRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Part, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var row types.Part
	err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *partRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Part{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *partRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Unscoped().Where("id = ?", id).Delete(&types.Part{}).Error
}

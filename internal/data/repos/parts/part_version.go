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

type PartVersionRepo interface {
	Create(dbc dbctx.Context, row *types.PartVersion) (*types.PartVersion, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PartVersion, error)
	GetByPartID(dbc dbctx.Context, partID uuid.UUID) ([]*types.PartVersion, error)

	// LockByID acquires FOR UPDATE on the version row; requires dbc.Tx.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.PartVersion, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteByPartID(dbc dbctx.Context, partID uuid.UUID) error
}

type partVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPartVersionRepo(db *gorm.DB, baseLog *logger.Logger) PartVersionRepo {
	return &partVersionRepo{db: db, log: baseLog.With("repo", "PartVersionRepo")}
}

func (r *partVersionRepo) Create(dbc dbctx.Context, row *types.PartVersion) (*types.PartVersion, error) {
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

func (r *partVersionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PartVersion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.PartVersion
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

func (r *partVersionRepo) GetByPartID(dbc dbctx.Context, partID uuid.UUID) ([]*types.PartVersion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.PartVersion
	if partID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("part_id = ?", partID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *partVersionRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.PartVersion, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var row types.PartVersion
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

func (r *partVersionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.PartVersion{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *partVersionRepo) FullDeleteByPartID(dbc dbctx.Context, partID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if partID == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Unscoped().
		Where("part_id = ?", partID).
		Delete(&types.PartVersion{}).Error
}

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

type PartStructureRepo interface {
	Create(dbc dbctx.Context, row *types.PartStructure) (*types.PartStructure, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PartStructure, error)

	// GetByPartIDs returns edges touching any of the parts on either side.
	GetByPartIDs(dbc dbctx.Context, partIDs []uuid.UUID, activeOnly bool, at time.Time) ([]*types.PartStructure, error)

	// GetActiveByParentIDs returns currently-valid outgoing edges, the
	// traversal primitive for cycle checks.
	GetActiveByParentIDs(dbc dbctx.Context, parentIDs []uuid.UUID, at time.Time) ([]*types.PartStructure, error)

	// LockByID acquires FOR UPDATE on the edge row; requires dbc.Tx.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.PartStructure, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) error
	FullDeleteByPartIDs(dbc dbctx.Context, partIDs []uuid.UUID) error
}

type partStructureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPartStructureRepo(db *gorm.DB, baseLog *logger.Logger) PartStructureRepo {
	return &partStructureRepo{db: db, log: baseLog.With("repo", "PartStructureRepo")}
}

func (r *partStructureRepo) Create(dbc dbctx.Context, row *types.PartStructure) (*types.PartStructure, error) {
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

func (r *partStructureRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PartStructure, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.PartStructure
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

func (r *partStructureRepo) GetByPartIDs(dbc dbctx.Context, partIDs []uuid.UUID, activeOnly bool, at time.Time) ([]*types.PartStructure, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.PartStructure
	if len(partIDs) == 0 {
		return out, nil
	}
	q := t.WithContext(dbc.Ctx).
		Where("parent_part_id IN ? OR child_part_id IN ?", partIDs, partIDs)
	if activeOnly {
		q = q.Where("valid_from <= ? AND (valid_until IS NULL OR valid_until > ?)", at, at)
	}
	if err := q.Order("valid_from ASC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *partStructureRepo) GetActiveByParentIDs(dbc dbctx.Context, parentIDs []uuid.UUID, at time.Time) ([]*types.PartStructure, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.PartStructure
	if len(parentIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("parent_part_id IN ?", parentIDs).
		Where("valid_from <= ? AND (valid_until IS NULL OR valid_until > ?)", at, at).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *partStructureRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.PartStructure, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var row types.PartStructure
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

func (r *partStructureRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.PartStructure{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *partStructureRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Unscoped().Where("id = ?", id).Delete(&types.PartStructure{}).Error
}

func (r *partStructureRepo) FullDeleteByPartIDs(dbc dbctx.Context, partIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(partIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Unscoped().
		Where("parent_part_id IN ? OR child_part_id IN ?", partIDs, partIDs).
		Delete(&types.PartStructure{}).Error
}

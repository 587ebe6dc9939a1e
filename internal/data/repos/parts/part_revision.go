package parts

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/partvault-backend/internal/domain"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

// PartRevisionRepo is append-only on purpose: revisions are the audit trail
// and expose no update or single-row delete path.
type PartRevisionRepo interface {
	Create(dbc dbctx.Context, row *types.PartRevision) (*types.PartRevision, error)
	GetByVersionID(dbc dbctx.Context, versionID uuid.UUID) ([]*types.PartRevision, error)
	GetByVersionIDs(dbc dbctx.Context, versionIDs []uuid.UUID) ([]*types.PartRevision, error)

	// FullDeleteByVersionIDs exists only for part deletion cleanup.
	FullDeleteByVersionIDs(dbc dbctx.Context, versionIDs []uuid.UUID) error
}

type partRevisionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPartRevisionRepo(db *gorm.DB, baseLog *logger.Logger) PartRevisionRepo {
	return &partRevisionRepo{db: db, log: baseLog.With("repo", "PartRevisionRepo")}
}

func (r *partRevisionRepo) Create(dbc dbctx.Context, row *types.PartRevision) (*types.PartRevision, error) {
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

func (r *partRevisionRepo) GetByVersionID(dbc dbctx.Context, versionID uuid.UUID) ([]*types.PartRevision, error) {
	return r.GetByVersionIDs(dbc, []uuid.UUID{versionID})
}

func (r *partRevisionRepo) GetByVersionIDs(dbc dbctx.Context, versionIDs []uuid.UUID) ([]*types.PartRevision, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.PartRevision
	if len(versionIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("part_version_id IN ?", versionIDs).
		Order("revision_date DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *partRevisionRepo) FullDeleteByVersionIDs(dbc dbctx.Context, versionIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(versionIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Unscoped().
		Where("part_version_id IN ?", versionIDs).
		Delete(&types.PartRevision{}).Error
}

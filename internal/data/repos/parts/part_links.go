package parts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/partvault-backend/internal/domain"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

// PartLinkRepo covers the four composite-unique classification joins.
// Inserts ignore duplicates so re-linking an existing pair is a no-op.
type PartLinkRepo interface {
	CreateCategoryLinks(dbc dbctx.Context, rows []*types.PartCategoryLink) (int, error)
	CreateTagLinks(dbc dbctx.Context, rows []*types.PartTagLink) (int, error)
	CreateFamilyLinks(dbc dbctx.Context, rows []*types.PartFamilyLink) (int, error)
	CreateGroupLinks(dbc dbctx.Context, rows []*types.PartGroupLink) (int, error)

	GetCategoryLinksByPartID(dbc dbctx.Context, partID uuid.UUID) ([]*types.PartCategoryLink, error)

	ReplaceCategoryLinks(dbc dbctx.Context, partID uuid.UUID, categoryIDs []uuid.UUID) error

	FullDeleteByPartID(dbc dbctx.Context, partID uuid.UUID) error
}

type partLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPartLinkRepo(db *gorm.DB, baseLog *logger.Logger) PartLinkRepo {
	return &partLinkRepo{db: db, log: baseLog.With("repo", "PartLinkRepo")}
}

func (r *partLinkRepo) CreateCategoryLinks(dbc dbctx.Context, rows []*types.PartCategoryLink) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "part_id"}, {Name: "category_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *partLinkRepo) CreateTagLinks(dbc dbctx.Context, rows []*types.PartTagLink) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "part_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *partLinkRepo) CreateFamilyLinks(dbc dbctx.Context, rows []*types.PartFamilyLink) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "part_id"}, {Name: "family_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *partLinkRepo) CreateGroupLinks(dbc dbctx.Context, rows []*types.PartGroupLink) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "part_id"}, {Name: "group_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *partLinkRepo) GetCategoryLinksByPartID(dbc dbctx.Context, partID uuid.UUID) ([]*types.PartCategoryLink, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.PartCategoryLink
	if partID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("part_id = ?", partID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *partLinkRepo) ReplaceCategoryLinks(dbc dbctx.Context, partID uuid.UUID, categoryIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if partID == uuid.Nil {
		return nil
	}
	if err := t.WithContext(dbc.Ctx).Unscoped().
		Where("part_id = ?", partID).
		Delete(&types.PartCategoryLink{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]*types.PartCategoryLink, 0, len(categoryIDs))
	for _, cid := range categoryIDs {
		rows = append(rows, &types.PartCategoryLink{ID: uuid.New(), PartID: partID, CategoryID: cid})
	}
	_, err := r.CreateCategoryLinks(dbctx.Context{Ctx: dbc.Ctx, Tx: t}, rows)
	return err
}

func (r *partLinkRepo) FullDeleteByPartID(dbc dbctx.Context, partID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if partID == uuid.Nil {
		return nil
	}
	if err := t.WithContext(dbc.Ctx).Unscoped().Where("part_id = ?", partID).Delete(&types.PartCategoryLink{}).Error; err != nil {
		return err
	}
	if err := t.WithContext(dbc.Ctx).Unscoped().Where("part_id = ?", partID).Delete(&types.PartTagLink{}).Error; err != nil {
		return err
	}
	if err := t.WithContext(dbc.Ctx).Unscoped().Where("part_id = ?", partID).Delete(&types.PartFamilyLink{}).Error; err != nil {
		return err
	}
	return t.WithContext(dbc.Ctx).Unscoped().Where("part_id = ?", partID).Delete(&types.PartGroupLink{}).Error
}

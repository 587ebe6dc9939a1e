package parts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/partvault-backend/internal/domain"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

// VersionLinkRepo covers rows hanging off a PartVersion: attachments,
// representations, compliance records, and custom fields.
type VersionLinkRepo interface {
	CreateAttachments(dbc dbctx.Context, rows []*types.PartAttachment) ([]*types.PartAttachment, error)
	CreateRepresentations(dbc dbctx.Context, rows []*types.PartRepresentation) ([]*types.PartRepresentation, error)
	CreateCompliance(dbc dbctx.Context, rows []*types.PartCompliance) ([]*types.PartCompliance, error)
	CreateCustomFields(dbc dbctx.Context, rows []*types.PartCustomField) (int, error)

	GetCustomFieldsByVersionID(dbc dbctx.Context, versionID uuid.UUID) ([]*types.PartCustomField, error)

	FullDeleteByVersionIDs(dbc dbctx.Context, versionIDs []uuid.UUID) error
}

type versionLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVersionLinkRepo(db *gorm.DB, baseLog *logger.Logger) VersionLinkRepo {
	return &versionLinkRepo{db: db, log: baseLog.With("repo", "VersionLinkRepo")}
}

func (r *versionLinkRepo) CreateAttachments(dbc dbctx.Context, rows []*types.PartAttachment) ([]*types.PartAttachment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.PartAttachment{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *versionLinkRepo) CreateRepresentations(dbc dbctx.Context, rows []*types.PartRepresentation) ([]*types.PartRepresentation, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.PartRepresentation{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *versionLinkRepo) CreateCompliance(dbc dbctx.Context, rows []*types.PartCompliance) ([]*types.PartCompliance, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.PartCompliance{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *versionLinkRepo) CreateCustomFields(dbc dbctx.Context, rows []*types.PartCustomField) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "part_version_id"}, {Name: "field_name"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *versionLinkRepo) GetCustomFieldsByVersionID(dbc dbctx.Context, versionID uuid.UUID) ([]*types.PartCustomField, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.PartCustomField
	if versionID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("part_version_id = ?", versionID).
		Order("field_name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *versionLinkRepo) FullDeleteByVersionIDs(dbc dbctx.Context, versionIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(versionIDs) == 0 {
		return nil
	}
	if err := t.WithContext(dbc.Ctx).Unscoped().Where("part_version_id IN ?", versionIDs).Delete(&types.PartAttachment{}).Error; err != nil {
		return err
	}
	if err := t.WithContext(dbc.Ctx).Unscoped().Where("part_version_id IN ?", versionIDs).Delete(&types.PartRepresentation{}).Error; err != nil {
		return err
	}
	if err := t.WithContext(dbc.Ctx).Unscoped().Where("part_version_id IN ?", versionIDs).Delete(&types.PartCompliance{}).Error; err != nil {
		return err
	}
	return t.WithContext(dbc.Ctx).Unscoped().Where("part_version_id IN ?", versionIDs).Delete(&types.PartCustomField{}).Error
}

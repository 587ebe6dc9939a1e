package parts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/partvault-backend/internal/domain"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

type ManufacturerPartRepo interface {
	Create(dbc dbctx.Context, row *types.ManufacturerPart) (*types.ManufacturerPart, error)
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.ManufacturerPart) (int, error)
	GetByPartID(dbc dbctx.Context, partID uuid.UUID) ([]*types.ManufacturerPart, error)
	FullDeleteByPartID(dbc dbctx.Context, partID uuid.UUID) error
}

type manufacturerPartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewManufacturerPartRepo(db *gorm.DB, baseLog *logger.Logger) ManufacturerPartRepo {
	return &manufacturerPartRepo{db: db, log: baseLog.With("repo", "ManufacturerPartRepo")}
}

func (r *manufacturerPartRepo) Create(dbc dbctx.Context, row *types.ManufacturerPart) (*types.ManufacturerPart, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *manufacturerPartRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.ManufacturerPart) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "part_id"}, {Name: "manufacturer_id"}, {Name: "manufacturer_part_number"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *manufacturerPartRepo) GetByPartID(dbc dbctx.Context, partID uuid.UUID) ([]*types.ManufacturerPart, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.ManufacturerPart
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

func (r *manufacturerPartRepo) FullDeleteByPartID(dbc dbctx.Context, partID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if partID == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Unscoped().
		Where("part_id = ?", partID).
		Delete(&types.ManufacturerPart{}).Error
}

type SupplierPartRepo interface {
	Create(dbc dbctx.Context, row *types.SupplierPart) (*types.SupplierPart, error)
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.SupplierPart) (int, error)
	GetByPartID(dbc dbctx.Context, partID uuid.UUID) ([]*types.SupplierPart, error)
	FullDeleteByPartID(dbc dbctx.Context, partID uuid.UUID) error
}

type supplierPartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupplierPartRepo(db *gorm.DB, baseLog *logger.Logger) SupplierPartRepo {
	return &supplierPartRepo{db: db, log: baseLog.With("repo", "SupplierPartRepo")}
}

func (r *supplierPartRepo) Create(dbc dbctx.Context, row *types.SupplierPart) (*types.SupplierPart, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *supplierPartRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.SupplierPart) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "part_id"}, {Name: "supplier_id"}, {Name: "supplier_part_number"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *supplierPartRepo) GetByPartID(dbc dbctx.Context, partID uuid.UUID) ([]*types.SupplierPart, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.SupplierPart
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

func (r *supplierPartRepo) FullDeleteByPartID(dbc dbctx.Context, partID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if partID == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Unscoped().
		Where("part_id = ?", partID).
		Delete(&types.SupplierPart{}).Error
}

package db

import (
	"fmt"

	types "github.com/yungbote/partvault-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Core part records
		// =========================
		&types.Part{},
		&types.PartVersion{},
		&types.PartStructure{},
		&types.PartRevision{},

		// =========================
		// Classification links
		// =========================
		&types.PartCategoryLink{},
		&types.PartTagLink{},
		&types.PartFamilyLink{},
		&types.PartGroupLink{},

		// =========================
		// Sourcing
		// =========================
		&types.ManufacturerPart{},
		&types.SupplierPart{},

		// =========================
		// Version dependents
		// =========================
		&types.PartAttachment{},
		&types.PartRepresentation{},
		&types.PartCompliance{},
		&types.PartCustomField{},
	)
}

func EnsurePartIndexes(db *gorm.DB) error {
	// uuid-ossp is already enabled in NewPostgresService, but safe to re-run
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}
	// Active-edge traversal hits this pair on every cycle check.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_part_structure_child_valid ON part_structure(child_part_id, valid_from, valid_until);`).Error; err != nil {
		return fmt.Errorf("create idx_part_structure_child_valid: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_part_structure_parent_valid ON part_structure(parent_part_id, valid_from, valid_until);`).Error; err != nil {
		return fmt.Errorf("create idx_part_structure_parent_valid: %w", err)
	}
	// Revision trail reads newest-first.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_part_revision_version_date ON part_revision(part_version_id, revision_date DESC);`).Error; err != nil {
		return fmt.Errorf("create idx_part_revision_version_date: %w", err)
	}
	// One version string per part.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_part_version_part_version ON part_version(part_id, part_version);`).Error; err != nil {
		return fmt.Errorf("create idx_part_version_part_version: %w", err)
	}
	return nil
}

package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/partvault-backend/internal/domain"
)

// SeedPart inserts a part with one draft version and points the part at
// it, returning both rows.
func SeedPart(tb testing.TB, tx *gorm.DB, name string) (*types.Part, *types.PartVersion) {
	tb.Helper()
	now := time.Now().UTC()
	part := &types.Part{
		ID:              uuid.New(),
		CreatorID:       uuid.New(),
		StatusInBOM:     "concept",
		LifecycleStatus: "draft",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.Create(part).Error; err != nil {
		tb.Fatalf("seed part: %v", err)
	}
	version := &types.PartVersion{
		ID:            uuid.New(),
		PartID:        part.ID,
		PartVersion:   types.DefaultInitialVersion,
		PartName:      name,
		VersionStatus: "draft",
		CreatedBy:     part.CreatorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.Create(version).Error; err != nil {
		tb.Fatalf("seed version: %v", err)
	}
	if err := tx.Model(&types.Part{}).
		Where("id = ?", part.ID).
		Update("current_version_id", version.ID).Error; err != nil {
		tb.Fatalf("point part at version: %v", err)
	}
	part.CurrentVersionID = &version.ID
	return part, version
}

// SeedEdge inserts an assembly edge valid from one minute ago.
func SeedEdge(tb testing.TB, tx *gorm.DB, parentID, childID uuid.UUID) *types.PartStructure {
	tb.Helper()
	now := time.Now().UTC()
	edge := &types.PartStructure{
		ID:           uuid.New(),
		ParentPartID: parentID,
		ChildPartID:  childID,
		RelationType: "assembly",
		Quantity:     1,
		ValidFrom:    now.Add(-time.Minute),
		CreatedBy:    uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.Create(edge).Error; err != nil {
		tb.Fatalf("seed edge: %v", err)
	}
	return edge
}

package domain

import (
	"github.com/yungbote/partvault-backend/internal/domain/parts"
)

type Part = parts.Part
type PartVersion = parts.PartVersion
type PartStructure = parts.PartStructure
type PartRevision = parts.PartRevision

type PartCategoryLink = parts.PartCategoryLink
type PartTagLink = parts.PartTagLink
type PartFamilyLink = parts.PartFamilyLink
type PartGroupLink = parts.PartGroupLink
type ManufacturerPart = parts.ManufacturerPart
type SupplierPart = parts.SupplierPart
type PartAttachment = parts.PartAttachment
type PartRepresentation = parts.PartRepresentation
type PartCompliance = parts.PartCompliance
type PartCustomField = parts.PartCustomField

type FieldViolation = parts.FieldViolation
type VersionPayload = parts.VersionPayload
type VersionPatch = parts.VersionPatch
type Number = parts.Number

const DefaultInitialVersion = parts.DefaultInitialVersion

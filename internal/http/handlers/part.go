package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	partrepos "github.com/yungbote/partvault-backend/internal/data/repos/parts"
	domainagg "github.com/yungbote/partvault-backend/internal/domain/aggregates"
	"github.com/yungbote/partvault-backend/internal/domain/parts"
	"github.com/yungbote/partvault-backend/internal/http/response"
	"github.com/yungbote/partvault-backend/internal/pkg/ctxutil"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
	"github.com/yungbote/partvault-backend/internal/realtime"
)

type PartHandler struct {
	log       *logger.Logger
	agg       domainagg.PartAggregate
	revisions partrepos.PartRevisionRepo
	events    *EventPublisher
}

func NewPartHandler(log *logger.Logger, agg domainagg.PartAggregate, revisions partrepos.PartRevisionRepo, events *EventPublisher) *PartHandler {
	return &PartHandler{
		log:       log.With("handler", "PartHandler"),
		agg:       agg,
		revisions: revisions,
		events:    events,
	}
}

func actorFrom(c *gin.Context) uuid.UUID {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		return rd.ActorID
	}
	return uuid.Nil
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, string(domainagg.CodeValidation), errors.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

type manufacturerLink struct {
	ManufacturerID         uuid.UUID `json:"manufacturer_id"`
	ManufacturerPartNumber string    `json:"manufacturer_part_number"`
	Description            *string   `json:"description,omitempty"`
}

type supplierLink struct {
	SupplierID         uuid.UUID `json:"supplier_id"`
	SupplierPartNumber string    `json:"supplier_part_number"`
	UnitPrice          *float64  `json:"unit_price,omitempty"`
	Currency           *string   `json:"currency,omitempty"`
}

type customField struct {
	FieldName  string  `json:"field_name"`
	FieldValue *string `json:"field_value,omitempty"`
	FieldType  *string `json:"field_type,omitempty"`
}

type attachment struct {
	FileName    string  `json:"file_name"`
	StorageKey  string  `json:"storage_key"`
	ContentType *string `json:"content_type,omitempty"`
}

type representation struct {
	Format     string `json:"format"`
	StorageKey string `json:"storage_key"`
	IsPrimary  bool   `json:"is_primary"`
}

type compliance struct {
	Standard          string          `json:"standard"`
	CertificateNumber *string         `json:"certificate_number,omitempty"`
	ValidUntil        *time.Time      `json:"valid_until,omitempty"`
	Details           json.RawMessage `json:"details,omitempty"`
}

type structureEdge struct {
	ParentPartID uuid.UUID  `json:"parent_part_id"`
	ChildPartID  uuid.UUID  `json:"child_part_id"`
	RelationType string     `json:"relation_type"`
	Quantity     *float64   `json:"quantity,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	ValidFrom    *time.Time `json:"valid_from,omitempty"`
}

type createPartRequest struct {
	GlobalPartNumber *string             `json:"global_part_number,omitempty"`
	StatusInBOM      *string             `json:"status_in_bom,omitempty"`
	IsPublic         bool                `json:"is_public"`
	Version          parts.VersionPayload `json:"version"`

	CategoryIDs    []uuid.UUID        `json:"category_ids,omitempty"`
	TagIDs         []uuid.UUID        `json:"tag_ids,omitempty"`
	FamilyIDs      []uuid.UUID        `json:"family_ids,omitempty"`
	GroupIDs       []uuid.UUID        `json:"group_ids,omitempty"`
	Manufacturers   []manufacturerLink `json:"manufacturers,omitempty"`
	Suppliers       []supplierLink     `json:"suppliers,omitempty"`
	CustomFields    []customField      `json:"custom_fields,omitempty"`
	Attachments     []attachment       `json:"attachments,omitempty"`
	Representations []representation   `json:"representations,omitempty"`
	Compliance      []compliance       `json:"compliance,omitempty"`
	StructureEdges  []structureEdge    `json:"structure_edges,omitempty"`
}

// POST /api/parts
func (h *PartHandler) CreatePart(c *gin.Context) {
	var req createPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, string(domainagg.CodeValidation), err)
		return
	}

	in := domainagg.CreatePartInput{
		ActorID:          actorFrom(c),
		GlobalPartNumber: req.GlobalPartNumber,
		StatusInBOM:      req.StatusInBOM,
		IsPublic:         req.IsPublic,
		Version:          req.Version,
		CategoryIDs:      req.CategoryIDs,
		TagIDs:           req.TagIDs,
		FamilyIDs:        req.FamilyIDs,
		GroupIDs:         req.GroupIDs,
	}
	for _, m := range req.Manufacturers {
		in.Manufacturers = append(in.Manufacturers, domainagg.ManufacturerLinkInput{
			ManufacturerID:         m.ManufacturerID,
			ManufacturerPartNumber: m.ManufacturerPartNumber,
			Description:            m.Description,
		})
	}
	for _, s := range req.Suppliers {
		in.Suppliers = append(in.Suppliers, domainagg.SupplierLinkInput{
			SupplierID:         s.SupplierID,
			SupplierPartNumber: s.SupplierPartNumber,
			UnitPrice:          s.UnitPrice,
			Currency:           s.Currency,
		})
	}
	for _, f := range req.CustomFields {
		in.CustomFields = append(in.CustomFields, domainagg.CustomFieldInput{
			FieldName:  f.FieldName,
			FieldValue: f.FieldValue,
			FieldType:  f.FieldType,
		})
	}
	for _, a := range req.Attachments {
		in.Attachments = append(in.Attachments, domainagg.AttachmentInput{
			FileName:    a.FileName,
			StorageKey:  a.StorageKey,
			ContentType: a.ContentType,
		})
	}
	for _, r := range req.Representations {
		in.Representations = append(in.Representations, domainagg.RepresentationInput{
			Format:     r.Format,
			StorageKey: r.StorageKey,
			IsPrimary:  r.IsPrimary,
		})
	}
	for _, cp := range req.Compliance {
		in.Compliance = append(in.Compliance, domainagg.ComplianceInput{
			Standard:          cp.Standard,
			CertificateNumber: cp.CertificateNumber,
			ValidUntil:        cp.ValidUntil,
			Details:           datatypes.JSON(cp.Details),
		})
	}
	for _, e := range req.StructureEdges {
		in.StructureEdges = append(in.StructureEdges, domainagg.StructureEdgeInput{
			ParentPartID: e.ParentPartID,
			ChildPartID:  e.ChildPartID,
			RelationType: e.RelationType,
			Quantity:     e.Quantity,
			Notes:        e.Notes,
			ValidFrom:    e.ValidFrom,
		})
	}

	res, err := h.agg.CreatePart(c.Request.Context(), in)
	if err != nil {
		response.AggregateError(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), realtime.EventPartCreated, res.Part.ID, &res.Version.ID, in.ActorID)
	response.Created(c, gin.H{
		"part":                  res.Part,
		"version":               res.Version,
		"relationship_failures": res.Relationships,
	})
}

// GET /api/parts/:id
func (h *PartHandler) GetPart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.agg.GetPart(c.Request.Context(), id)
	if err != nil {
		response.AggregateError(c, err)
		return
	}
	response.OK(c, gin.H{
		"part":            view.Part,
		"current_version": view.Current,
		"versions":        view.Versions,
		"revisions":       view.Revisions,
	})
}

type createNextVersionRequest struct {
	Version parts.VersionPayload `json:"version"`
	Patch   parts.VersionPatch   `json:"patch"`
}

// POST /api/parts/:id/versions
func (h *PartHandler) CreateNextVersion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createNextVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, string(domainagg.CodeValidation), err)
		return
	}

	res, err := h.agg.CreateNextVersion(c.Request.Context(), domainagg.CreateNextVersionInput{
		ActorID: actorFrom(c),
		PartID:  id,
		Version: req.Version,
		Patch:   req.Patch,
	})
	if err != nil {
		response.AggregateError(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), realtime.EventPartVersionCreated, res.Part.ID, &res.Version.ID, actorFrom(c))
	response.Created(c, gin.H{
		"part":    res.Part,
		"version": res.Version,
	})
}

type updateVersionRequest struct {
	Patch             parts.VersionPatch `json:"patch"`
	ChangeDescription string             `json:"change_description"`
}

// PATCH /api/part-versions/:id
func (h *PartHandler) UpdatePartVersion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, string(domainagg.CodeValidation), err)
		return
	}

	res, err := h.agg.UpdatePartVersion(c.Request.Context(), domainagg.UpdatePartVersionInput{
		ActorID:           actorFrom(c),
		PartVersionID:     id,
		Patch:             req.Patch,
		ChangeDescription: req.ChangeDescription,
	})
	if err != nil {
		response.AggregateError(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), realtime.EventPartVersionUpdated, res.Version.PartID, &res.Version.ID, actorFrom(c))
	response.OK(c, gin.H{
		"version":        res.Version,
		"changed_fields": res.ChangedFields,
	})
}

type updateStatusRequest struct {
	PartVersionID uuid.UUID `json:"part_version_id"`
	StatusInBOM   string    `json:"status_in_bom"`
}

// POST /api/parts/:id/current-version
func (h *PartHandler) UpdatePartWithStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, string(domainagg.CodeValidation), err)
		return
	}

	res, err := h.agg.UpdatePartWithStatus(c.Request.Context(), domainagg.UpdatePartWithStatusInput{
		ActorID:       actorFrom(c),
		PartID:        id,
		PartVersionID: req.PartVersionID,
		StatusInBOM:   req.StatusInBOM,
	})
	if err != nil {
		response.AggregateError(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), realtime.EventPartStatusChanged, res.Part.ID, res.Part.CurrentVersionID, actorFrom(c))
	response.OK(c, gin.H{"part": res.Part})
}

// DELETE /api/parts/:id
func (h *PartHandler) DeletePart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.agg.DeletePart(c.Request.Context(), domainagg.DeletePartInput{
		ActorID: actorFrom(c),
		PartID:  id,
	}); err != nil {
		response.AggregateError(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), realtime.EventPartDeleted, id, nil, actorFrom(c))
	c.Status(http.StatusNoContent)
}

// GET /api/part-versions/:id/revisions
func (h *PartHandler) ListRevisions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	revisions, err := h.revisions.GetByVersionID(dbctx.Context{Ctx: c.Request.Context()}, id)
	if err != nil {
		response.AggregateError(c, err)
		return
	}
	response.OK(c, gin.H{"revisions": revisions})
}

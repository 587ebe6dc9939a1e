package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/partvault-backend/internal/domain/aggregates"
	"github.com/yungbote/partvault-backend/internal/http/response"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
	"github.com/yungbote/partvault-backend/internal/realtime"
)

type StructureHandler struct {
	log    *logger.Logger
	agg    domainagg.StructureAggregate
	events *EventPublisher
}

func NewStructureHandler(log *logger.Logger, agg domainagg.StructureAggregate, events *EventPublisher) *StructureHandler {
	return &StructureHandler{
		log:    log.With("handler", "StructureHandler"),
		agg:    agg,
		events: events,
	}
}

type addEdgeRequest struct {
	ParentPartID uuid.UUID  `json:"parent_part_id"`
	ChildPartID  uuid.UUID  `json:"child_part_id"`
	RelationType string     `json:"relation_type"`
	Quantity     *float64   `json:"quantity,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	ValidFrom    *time.Time `json:"valid_from,omitempty"`
}

// POST /api/structure-edges
func (h *StructureHandler) AddEdge(c *gin.Context) {
	var req addEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, string(domainagg.CodeValidation), err)
		return
	}

	res, err := h.agg.AddEdge(c.Request.Context(), domainagg.AddEdgeInput{
		ActorID:      actorFrom(c),
		ParentPartID: req.ParentPartID,
		ChildPartID:  req.ChildPartID,
		RelationType: req.RelationType,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
		ValidFrom:    req.ValidFrom,
	})
	if err != nil {
		response.AggregateError(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), realtime.EventStructureChanged, res.Edge.ParentPartID, nil, actorFrom(c))
	response.Created(c, gin.H{"edge": res.Edge})
}

type updateEdgeRequest struct {
	ParentPartID *uuid.UUID `json:"parent_part_id,omitempty"`
	ChildPartID  *uuid.UUID `json:"child_part_id,omitempty"`
	RelationType *string    `json:"relation_type,omitempty"`
	Quantity     *float64   `json:"quantity,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	ValidFrom    *time.Time `json:"valid_from,omitempty"`
	ValidUntil   *time.Time `json:"valid_until,omitempty"`
}

// PATCH /api/structure-edges/:id
func (h *StructureHandler) UpdateEdge(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, string(domainagg.CodeValidation), err)
		return
	}

	res, err := h.agg.UpdateEdge(c.Request.Context(), domainagg.UpdateEdgeInput{
		ActorID:      actorFrom(c),
		EdgeID:       id,
		ParentPartID: req.ParentPartID,
		ChildPartID:  req.ChildPartID,
		RelationType: req.RelationType,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
	})
	if err != nil {
		response.AggregateError(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), realtime.EventStructureChanged, res.Edge.ParentPartID, nil, actorFrom(c))
	response.OK(c, gin.H{"edge": res.Edge})
}

// DELETE /api/structure-edges/:id
func (h *StructureHandler) RemoveEdge(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.agg.RemoveEdge(c.Request.Context(), domainagg.RemoveEdgeInput{
		ActorID: actorFrom(c),
		EdgeID:  id,
	}); err != nil {
		response.AggregateError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type supersedeEdgeRequest struct {
	ChildPartID  *uuid.UUID `json:"child_part_id,omitempty"`
	RelationType *string    `json:"relation_type,omitempty"`
	Quantity     *float64   `json:"quantity,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	EffectiveAt  *time.Time `json:"effective_at,omitempty"`
}

// POST /api/structure-edges/:id/supersede
func (h *StructureHandler) SupersedeEdge(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req supersedeEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, string(domainagg.CodeValidation), err)
		return
	}

	res, err := h.agg.SupersedeEdge(c.Request.Context(), domainagg.SupersedeEdgeInput{
		ActorID:      actorFrom(c),
		EdgeID:       id,
		ChildPartID:  req.ChildPartID,
		RelationType: req.RelationType,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
		EffectiveAt:  req.EffectiveAt,
	})
	if err != nil {
		response.AggregateError(c, err)
		return
	}
	h.events.Publish(c.Request.Context(), realtime.EventStructureChanged, res.Replaced.ParentPartID, nil, actorFrom(c))
	response.OK(c, gin.H{
		"closed":   res.Closed,
		"replaced": res.Replaced,
	})
}

// GET /api/parts/:id/structure-edges
func (h *StructureHandler) EdgesForPart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	activeOnly := c.Query("active") == "true"

	edges, err := h.agg.EdgesForPart(c.Request.Context(), id, activeOnly)
	if err != nil {
		response.AggregateError(c, err)
		return
	}
	response.OK(c, gin.H{"edges": edges})
}

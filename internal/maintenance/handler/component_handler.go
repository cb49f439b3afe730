package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/service"
	"github.com/shopspring/decimal"
)

type ComponentHandler struct {
	svc      *service.ComponentService
	ledger   *service.LedgerService
	resolver *service.ResolverService
}

func NewComponentHandler(svc *service.ComponentService, ledger *service.LedgerService, resolver *service.ResolverService) *ComponentHandler {
	return &ComponentHandler{svc: svc, ledger: ledger, resolver: resolver}
}

// Create POST /components
func (h *ComponentHandler) Create(c *gin.Context) {
	var req service.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	component, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Created(c, component)
}

type bulkCreateRequest struct {
	service.CreateComponentRequest
	SerialNumbers []string `json:"serial_numbers" binding:"required,min=1"`
}

// BulkCreate POST /components/bulk
func (h *ComponentHandler) BulkCreate(c *gin.Context) {
	var req bulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	components, err := h.svc.BulkCreate(c.Request.Context(), GetUserID(c), &req.CreateComponentRequest, req.SerialNumbers)
	if err != nil {
		DomainError(c, err)
		return
	}
	Created(c, gin.H{"items": components})
}

// Get GET /components/:id
func (h *ComponentHandler) Get(c *gin.Context) {
	component, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, component)
}

// Update PUT /components/:id
func (h *ComponentHandler) Update(c *gin.Context) {
	var req service.UpdateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	component, err := h.svc.Update(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, component)
}

// ListByAircraft GET /aircraft/:id/components?type=sub&attached=true
func (h *ComponentHandler) ListByAircraft(c *gin.Context) {
	componentType := entity.ComponentType(c.DefaultQuery("type", string(entity.ComponentTypeMain)))
	attachedOnly := c.Query("attached") == "true"

	components, err := h.svc.ListByAircraft(c.Request.Context(), c.Param("id"), componentType, attachedOnly)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, gin.H{"items": components})
}

// Children GET /components/:id/children
func (h *ComponentHandler) Children(c *gin.Context) {
	components, err := h.svc.ListChildren(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, gin.H{"items": components})
}

// Tree GET /aircraft/:id/components/tree
func (h *ComponentHandler) Tree(c *gin.Context) {
	tree, err := h.svc.Tree(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, gin.H{"items": tree})
}

// Clone POST /components/:id/clone
func (h *ComponentHandler) Clone(c *gin.Context) {
	var req service.CloneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	clones, err := h.svc.Clone(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Created(c, gin.H{"items": clones})
}

type attachmentRequest struct {
	UpdateComments string `json:"update_comments"`
}

// Detach POST /components/:id/detach
func (h *ComponentHandler) Detach(c *gin.Context) {
	var req attachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		BadRequest(c, err.Error())
		return
	}
	component, err := h.svc.Detach(c.Request.Context(), GetUserID(c), c.Param("id"), req.UpdateComments)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, component)
}

// Reattach POST /components/:id/reattach
func (h *ComponentHandler) Reattach(c *gin.Context) {
	var req attachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		BadRequest(c, err.Error())
		return
	}
	component, err := h.svc.Reattach(c.Request.Context(), GetUserID(c), c.Param("id"), req.UpdateComments)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, component)
}

// ReProvision POST /components/:id/re-provision
func (h *ComponentHandler) ReProvision(c *gin.Context) {
	var req attachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		BadRequest(c, err.Error())
		return
	}
	component, err := h.svc.ReProvision(c.Request.Context(), GetUserID(c), c.Param("id"), req.UpdateComments)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, component)
}

// ResolveAircraft GET /components/:id/aircraft?type=sub2
func (h *ComponentHandler) ResolveAircraft(c *gin.Context) {
	componentType := entity.ComponentType(c.DefaultQuery("type", string(entity.ComponentTypeMain)))
	aircraft, err := h.resolver.ResolveAircraft(c.Request.Context(), componentType, c.Param("id"))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, aircraft)
}

type restoreHoursRequest struct {
	Hours          decimal.Decimal `json:"hours" binding:"required"`
	UpdateComments string          `json:"update_comments"`
}

// RestoreHours POST /components/:id/restore-hours
func (h *ComponentHandler) RestoreHours(c *gin.Context) {
	var req restoreHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	component, err := h.ledger.RestoreHours(c.Request.Context(), c.Param("id"), req.Hours, GetUserID(c))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, component)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mgeorge46/entebbe/internal/maintenance/service"
)

type AircraftHandler struct {
	svc       *service.AircraftService
	exportSvc *service.ExportService
}

func NewAircraftHandler(svc *service.AircraftService, exportSvc *service.ExportService) *AircraftHandler {
	return &AircraftHandler{svc: svc, exportSvc: exportSvc}
}

// List GET /aircraft
func (h *AircraftHandler) List(c *gin.Context) {
	aircraft, err := h.svc.List(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		InternalError(c, "list aircraft: "+err.Error())
		return
	}
	Success(c, gin.H{"items": aircraft})
}

// Get GET /aircraft/:id
func (h *AircraftHandler) Get(c *gin.Context) {
	aircraft, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, aircraft)
}

// Create POST /aircraft
func (h *AircraftHandler) Create(c *gin.Context) {
	var req service.CreateAircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	aircraft, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Created(c, aircraft)
}

// Update PUT /aircraft/:id
func (h *AircraftHandler) Update(c *gin.Context) {
	var req service.UpdateAircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	aircraft, err := h.svc.Update(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, aircraft)
}

// Stats GET /aircraft/:id/stats
func (h *AircraftHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, stats)
}

// ScheduleMaintenance POST /aircraft/:id/maintenance
func (h *AircraftHandler) ScheduleMaintenance(c *gin.Context) {
	var req service.ScheduleAircraftMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	record, err := h.svc.ScheduleMaintenance(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Created(c, record)
}

// UpdateMaintenance PUT /aircraft/maintenance/:recordId
func (h *AircraftHandler) UpdateMaintenance(c *gin.Context) {
	var req service.UpdateAircraftMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	record, err := h.svc.UpdateMaintenance(c.Request.Context(), GetUserID(c), c.Param("recordId"), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, record)
}

// MaintenanceHistory GET /aircraft/:id/maintenance
func (h *AircraftHandler) MaintenanceHistory(c *gin.Context) {
	records, err := h.svc.MaintenanceHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, gin.H{"items": records})
}

// ExportComponents GET /aircraft/:id/components/export
func (h *AircraftHandler) ExportComponents(c *gin.Context) {
	f, filename, err := h.exportSvc.ExportComponents(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/mgeorge46/entebbe/internal/maintenance/service"
	"github.com/shopspring/decimal"
)

type MaintenanceHandler struct {
	svc       *service.MaintenanceService
	exportSvc *service.ExportService
	reportSvc *service.ReportService
}

func NewMaintenanceHandler(svc *service.MaintenanceService, exportSvc *service.ExportService, reportSvc *service.ReportService) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc, exportSvc: exportSvc, reportSvc: reportSvc}
}

// ScheduleBatch POST /maintenance/batches
func (h *MaintenanceHandler) ScheduleBatch(c *gin.Context) {
	var req service.ScheduleBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	records, err := h.svc.ScheduleBatch(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Created(c, gin.H{"batch_id": records[0].BatchID, "items": records})
}

type quickScheduleRequest struct {
	ComponentType    entity.ComponentType `json:"component_type" binding:"required"`
	ComponentID      string               `json:"component_id" binding:"required"`
	MainTypeSchedule string               `json:"main_type_schedule" binding:"required"`
	MaintenanceType  string               `json:"maintenance_type" binding:"required"`
	HoursToAdd       decimal.Decimal      `json:"hours_to_add"`
	StartDate        time.Time            `json:"start_date" binding:"required"`
	EndDate          time.Time            `json:"end_date" binding:"required"`
	Remarks          string               `json:"remarks"`
}

// QuickSchedule POST /maintenance/quick
func (h *MaintenanceHandler) QuickSchedule(c *gin.Context) {
	var req quickScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	item := service.ScheduleItem{ComponentType: req.ComponentType, ComponentID: req.ComponentID}
	records, err := h.svc.QuickSchedule(c.Request.Context(), GetUserID(c), item, &service.ScheduleBatchRequest{
		MainTypeSchedule: req.MainTypeSchedule,
		MaintenanceType:  req.MaintenanceType,
		HoursToAdd:       req.HoursToAdd,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Remarks:          req.Remarks,
	})
	if err != nil {
		DomainError(c, err)
		return
	}
	Created(c, gin.H{"batch_id": records[0].BatchID, "items": records})
}

// Get GET /maintenance/records/:id
func (h *MaintenanceHandler) Get(c *gin.Context) {
	record, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, record)
}

func filterFromQuery(c *gin.Context) repository.MaintenanceFilter {
	filter := repository.MaintenanceFilter{
		Status:        c.Query("status"),
		ComponentType: entity.ComponentType(c.Query("component_type")),
		ComponentID:   c.Query("component_id"),
		AircraftID:    c.Query("aircraft_id"),
		BatchID:       c.Query("batch_id"),
		Search:        c.Query("search"),
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = &t
		}
	}
	return filter
}

// List GET /maintenance/records
func (h *MaintenanceHandler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		InternalError(c, "list maintenance: "+err.Error())
		return
	}
	Success(c, gin.H{"items": records})
}

// GetBatch GET /maintenance/batches/:batchId
func (h *MaintenanceHandler) GetBatch(c *gin.Context) {
	records, err := h.svc.ListBatch(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, gin.H{"batch_id": c.Param("batchId"), "items": records})
}

// ListBatches GET /maintenance/batches
func (h *MaintenanceHandler) ListBatches(c *gin.Context) {
	summaries, err := h.svc.ListBatches(c.Request.Context(), QueryInt(c, "limit", 50))
	if err != nil {
		InternalError(c, "list batches: "+err.Error())
		return
	}
	Success(c, gin.H{"items": summaries})
}

// Complete POST /maintenance/records/:id/complete
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	var req service.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	record, err := h.svc.Complete(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, record)
}

// CompleteBatch POST /maintenance/batches/:batchId/complete
func (h *MaintenanceHandler) CompleteBatch(c *gin.Context) {
	var req service.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	records, err := h.svc.CompleteBatch(c.Request.Context(), GetUserID(c), c.Param("batchId"), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, gin.H{"batch_id": c.Param("batchId"), "items": records})
}

type cancelRequest struct {
	Remarks string `json:"remarks"`
}

// Cancel POST /maintenance/records/:id/cancel
func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		BadRequest(c, err.Error())
		return
	}
	record, err := h.svc.Cancel(c.Request.Context(), GetUserID(c), c.Param("id"), req.Remarks)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, record)
}

// Dashboard GET /maintenance/dashboard
func (h *MaintenanceHandler) Dashboard(c *gin.Context) {
	counts, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		InternalError(c, "dashboard: "+err.Error())
		return
	}
	Success(c, counts)
}

// Calendar GET /maintenance/calendar?year=2026&month=8
func (h *MaintenanceHandler) Calendar(c *gin.Context) {
	nowT := time.Now()
	year := QueryInt(c, "year", nowT.Year())
	month := QueryInt(c, "month", int(nowT.Month()))
	if month < 1 || month > 12 {
		BadRequest(c, "month out of range")
		return
	}

	records, err := h.svc.Calendar(c.Request.Context(), year, time.Month(month))
	if err != nil {
		InternalError(c, "calendar: "+err.Error())
		return
	}
	Success(c, gin.H{"year": year, "month": month, "items": records})
}

// Export GET /maintenance/records/export
func (h *MaintenanceHandler) Export(c *gin.Context) {
	f, filename, err := h.exportSvc.ExportMaintenance(c.Request.Context(), filterFromQuery(c))
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

// UploadReport POST /maintenance/reports
func (h *MaintenanceHandler) UploadReport(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "file required")
		return
	}
	defer file.Close()

	key, err := h.reportSvc.Upload(c.Request.Context(), "maintenance", header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		DomainError(c, err)
		return
	}
	Created(c, gin.H{"key": key})
}

// ReportURL GET /maintenance/reports/url?key=...
func (h *MaintenanceHandler) ReportURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		BadRequest(c, "key required")
		return
	}
	url, err := h.reportSvc.DownloadURL(c.Request.Context(), key, 15*time.Minute)
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, gin.H{"url": url})
}

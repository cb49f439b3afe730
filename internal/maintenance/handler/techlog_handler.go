package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mgeorge46/entebbe/internal/maintenance/service"
)

type TechLogHandler struct {
	svc       *service.TechLogService
	reportSvc *service.ReportService
}

func NewTechLogHandler(svc *service.TechLogService, reportSvc *service.ReportService) *TechLogHandler {
	return &TechLogHandler{svc: svc, reportSvc: reportSvc}
}

// CloseFlight POST /techlogs
func (h *TechLogHandler) CloseFlight(c *gin.Context) {
	var req service.CloseFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	log, err := h.svc.CloseFlight(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		DomainError(c, err)
		return
	}
	Created(c, log)
}

// History GET /aircraft/:id/techlogs
func (h *TechLogHandler) History(c *gin.Context) {
	logs, err := h.svc.History(c.Request.Context(), c.Param("id"), QueryInt(c, "limit", 50))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, gin.H{"items": logs})
}

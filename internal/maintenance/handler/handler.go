package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mgeorge46/entebbe/internal/maintenance/service"
)

// Handlers holds the maintenance module's HTTP handlers.
type Handlers struct {
	Aircraft    *AircraftHandler
	Component   *ComponentHandler
	Maintenance *MaintenanceHandler
	TechLog     *TechLogHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Aircraft:    NewAircraftHandler(svc.Aircraft, svc.Export),
		Component:   NewComponentHandler(svc.Component, svc.Ledger, svc.Resolver),
		Maintenance: NewMaintenanceHandler(svc.Maintenance, svc.Export, svc.Report),
		TechLog:     NewTechLogHandler(svc.TechLog, svc.Report),
	}
}

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error envelope. The HTTP status is the leading three
// digits of the code.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// DomainError maps service errors onto the envelope. Unknown errors become
// a 500 with a generic message so internals stay out of responses.
func DomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAircraftNotFound),
		errors.Is(err, service.ErrComponentNotFound),
		errors.Is(err, service.ErrRecordNotFound),
		errors.Is(err, service.ErrBatchNotFound),
		errors.Is(err, service.ErrDetachedFromTree):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrDuplicateAttached),
		errors.Is(err, service.ErrDuplicateSerial),
		errors.Is(err, service.ErrAlreadyScheduled),
		errors.Is(err, service.ErrAlreadyClosed),
		errors.Is(err, service.ErrNotAttached):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidComponentType),
		errors.Is(err, service.ErrInvalidParent),
		errors.Is(err, service.ErrInvalidDates),
		errors.Is(err, service.ErrNegativeHours),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrFlightTooShort),
		errors.Is(err, service.ErrLandingBefore):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		Error(c, 50300, err.Error())
	default:
		InternalError(c, "internal error")
	}
}

// GetUserID reads the authenticated user id set by the JWT middleware.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// QueryInt parses an integer query param with a default.
func QueryInt(c *gin.Context, key string, def int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}

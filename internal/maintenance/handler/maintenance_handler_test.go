package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/shopspring/decimal"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/mgeorge46/entebbe/internal/maintenance/service"
	"github.com/mgeorge46/entebbe/internal/maintenance/testutil"
	"gorm.io/gorm"
)

func setupMaintenanceTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, nil, testutil.TestConfig(), testutil.TestLogger())
	handlers := NewHandlers(services)

	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/aircraft", handlers.Aircraft.Create)
	api.GET("/aircraft/:id/stats", handlers.Aircraft.Stats)
	api.POST("/components", handlers.Component.Create)
	api.POST("/maintenance/batches", handlers.Maintenance.ScheduleBatch)
	api.GET("/maintenance/records", handlers.Maintenance.List)
	api.POST("/maintenance/records/:id/complete", handlers.Maintenance.Complete)
	api.GET("/maintenance/dashboard", handlers.Maintenance.Dashboard)

	return db, router
}

func TestMaintenanceWorkflowOverHTTP(t *testing.T) {
	db, router := setupMaintenanceTest(t)
	token := testutil.DefaultTestToken()

	aircraft := testutil.SeedAircraft(t, db, "5X-EIA", "5X-EIA-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Left Engine", "SN-HND-1", 100)

	// Schedule a batch of one.
	w := testutil.DoRequest(router, "POST", "/api/v1/maintenance/batches",
		map[string]interface{}{
			"items": []map[string]string{
				{"component_type": "main", "component_id": main.ID},
			},
			"main_type_schedule": entity.ScheduleTypeMaintenance,
			"maintenance_type":   entity.MaintenanceClassA,
			"hours_to_add":       "50",
			"start_date":         time.Now().Format(time.RFC3339),
			"end_date":           time.Now().AddDate(0, 0, 3).Format(time.RFC3339),
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["batch_id"] == "" {
		t.Fatalf("Expected batch_id in response")
	}
	items := data["items"].([]interface{})
	recordID := items[0].(map[string]interface{})["id"].(string)

	// Listed in the Scheduled bucket.
	w = testutil.DoRequest(router, "GET", "/api/v1/maintenance/records?status=Scheduled", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	listed := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(listed) != 1 {
		t.Fatalf("Expected 1 scheduled record, got %d", len(listed))
	}

	// Complete it.
	w = testutil.DoRequest(router, "POST", "/api/v1/maintenance/records/"+recordID+"/complete",
		map[string]interface{}{
			"actual_end_date":    time.Now().Format(time.RFC3339),
			"actual_hours_added": "50",
			"completion_remarks": "done",
		}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	completed := resp["data"].(map[string]interface{})
	if completed["maintenance_status"] != entity.RecordStatusCompleted {
		t.Errorf("Expected Completed, got %v", completed["maintenance_status"])
	}

	// Hours restored on the component.
	var c entity.Component
	if err := db.First(&c, "id = ?", main.ID).Error; err != nil {
		t.Fatalf("reload component: %v", err)
	}
	if !c.MaintenanceHours.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected 150 hours, got %s", c.MaintenanceHours)
	}

	// Dashboard reflects the close.
	w = testutil.DoRequest(router, "GET", "/api/v1/maintenance/dashboard", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	counts := resp["data"].(map[string]interface{})["counts"].(map[string]interface{})
	if counts["completed"].(float64) != 1 {
		t.Errorf("Expected 1 completed, got %v", counts["completed"])
	}
}

func TestMaintenanceEndpointsRequireAuth(t *testing.T) {
	_, router := setupMaintenanceTest(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/maintenance/dashboard", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}

func TestScheduleBatchRejectsUnknownComponent(t *testing.T) {
	_, router := setupMaintenanceTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/maintenance/batches",
		map[string]interface{}{
			"items": []map[string]string{
				{"component_type": "main", "component_id": "missing"},
			},
			"main_type_schedule": entity.ScheduleTypeOperational,
			"maintenance_type":   entity.MaintenanceClassA,
			"start_date":         time.Now().Format(time.RFC3339),
			"end_date":           time.Now().AddDate(0, 0, 3).Format(time.RFC3339),
		}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

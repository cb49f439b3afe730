package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mgeorge46/entebbe/internal/config"
	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_mx"
	JWTSecret  = "entebbe-mx-jwt-secret-key-2026"
)

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SetupTestDB creates a test database connection using a dedicated test
// schema. Each test gets an isolated schema that is dropped afterwards.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "entebbe")
	password := getEnv("DB_PASSWORD", "entebbe123")
	dbname := getEnv("DB_NAME", "entebbe_mx")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// search_path in the DSN so all pooled connections use the test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.Aircraft{},
		&entity.Component{},
		&entity.ComponentMaintenance{},
		&entity.AircraftMaintenance{},
		&entity.FlightTechLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// TestConfig returns a config suitable for exercising services in tests.
func TestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: JWTSecret},
		Maintenance: config.MaintenanceConfig{
			AutoScheduleWindowDays: 7,
			LowHoursThreshold:      10,
			ResolverCacheTTL:       5 * time.Minute,
		},
	}
}

// TestLogger returns a no-op logger.
func TestLogger() *zap.Logger {
	return zap.NewNop()
}

// SetupRouter creates a gin test router.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing.
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing.
func GenerateTestToken(userID, name, email string, roles, permissions []string) string {
	if roles == nil {
		roles = []string{}
	}
	if permissions == nil {
		permissions = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"roles": roles,
		"perms": permissions,
		"iss":   "entebbe-mx",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user.
func DefaultTestToken() string {
	return GenerateTestToken(
		"test-user-001",
		"Test Engineer",
		"engineer@test.com",
		[]string{"mx_admin"},
		[]string{"*"},
	)
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedAircraft creates a test aircraft.
func SeedAircraft(t *testing.T, db *gorm.DB, abbreviation, registration string) *entity.Aircraft {
	t.Helper()
	aircraft := &entity.Aircraft{
		ID:                 uuid.New().String()[:32],
		Abbreviation:       abbreviation,
		RegistrationNumber: registration,
		AircraftModel:      "DHC-8-400",
		Manufacturer:       "De Havilland",
		Status:             entity.AircraftStatusOperational,
		RecordDate:         time.Now(),
		AddedBy:            "test-user-001",
	}
	if err := db.Create(aircraft).Error; err != nil {
		t.Fatalf("Failed to seed aircraft: %v", err)
	}
	return aircraft
}

// SeedComponent creates one Attached component. Level 0 components pass the
// aircraft id as owner, deeper levels a parent component id.
func SeedComponent(t *testing.T, db *gorm.DB, level int, ownerID, name, serial string, hours float64) *entity.Component {
	t.Helper()
	component := &entity.Component{
		ID:               uuid.New().String()[:32],
		Level:            level,
		ComponentName:    name,
		MaintenanceHours: decimal.NewFromFloat(hours),
		PartNumber:       "PN-" + serial,
		SerialNumber:     serial,
		ItemOriginalHours: decimal.NewFromFloat(hours),
		MaintenanceStatus: entity.MaintStatusOperational,
		ComponentStatus:   entity.ComponentStatusAttached,
		RecordDate:        time.Now(),
		AddedBy:           "test-user-001",
	}
	if level == 0 {
		component.AircraftID = &ownerID
	} else {
		component.ParentID = &ownerID
	}
	if err := db.Create(component).Error; err != nil {
		t.Fatalf("Failed to seed component: %v", err)
	}
	return component
}

package service

import (
	"testing"

	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/mgeorge46/entebbe/internal/maintenance/testutil"
	"gorm.io/gorm"
)

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewServices(repos, db, nil, testutil.TestConfig(), testutil.TestLogger())
	return svc, db
}

package service_test

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandeepramdas/tether/internal/domain"
	"github.com/sandeepramdas/tether/internal/repo"
	"github.com/sandeepramdas/tether/internal/service"
	"github.com/sandeepramdas/tether/pkg/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.ProviderProfile{},
		&domain.Skill{},
		&domain.ProviderSkill{},
		&domain.ServiceOffering{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func newProviderService(db *gorm.DB) *service.ProviderService {
	return service.NewProviderService(repo.NewProviderRepo(db), repo.NewUserRepo(db), nil)
}

func newSkillService(db *gorm.DB) *service.SkillService {
	return service.NewSkillService(repo.NewSkillRepo(db), repo.NewProviderRepo(db))
}

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:          utils.NewID(),
		Email:       email,
		FirstName:   "Jordan",
		LastName:    "Lee",
		DisplayName: "Jordan Lee",
		Role:        "user",
		UserType:    domain.UserTypeSeeker,
		CountryCode: domain.CountryOther,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedProfile(t *testing.T, db *gorm.DB, userID string) *domain.ProviderProfile {
	t.Helper()
	p := &domain.ProviderProfile{
		ID:               utils.NewID(),
		UserID:           userID,
		BusinessName:     "Acme Repairs",
		ServiceRadius:    25,
		IsOnlineProvider: true,
		Status:           domain.ProfileStatusActive,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return p
}

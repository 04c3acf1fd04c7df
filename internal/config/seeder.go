package config

import (
	"log"
	"time"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/core/catalog"
	"clubtrack/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedData seeds the default admin account and, in dev mode, a demo member.
func SeedData(db *gorm.DB, cfg *Config) error {
	if err := seedAdmin(db); err != nil {
		return err
	}

	if cfg.IsDev() {
		if err := seedDemoMember(db); err != nil {
			return err
		}
	}

	log.Println("✅ Seed data checked")
	return nil
}

func seedAdmin(db *gorm.DB) error {
	adminEmail := getEnv("ADMIN_EMAIL", "admin@clubtrack.local")

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := password.Hash(getEnv("ADMIN_PASSWORD", "change-me-now"))
	if err != nil {
		return err
	}

	admin := models.User{
		Email:       adminEmail,
		Password:    hashed,
		DisplayName: getEnv("ADMIN_NAME", "Club Admin"),
		Role:        "admin",
		IsActive:    true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("   Created admin account: %s", adminEmail)
	return nil
}

func seedDemoMember(db *gorm.DB) error {
	const demoEmail = "demo.member@clubtrack.local"

	var existing models.User
	err := db.Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := password.Hash("demo-password")
	if err != nil {
		return err
	}

	tier, _ := catalog.TierByID("two-days-weekly")
	now := time.Now()
	expiration := now.AddDate(0, 0, tier.DurationDays)
	weeklyReset := now.AddDate(0, 0, 7)
	monthlyReset := now.AddDate(0, 1, 0)
	tierID := tier.ID

	member := models.User{
		Email:                demoEmail,
		Password:             hashed,
		DisplayName:          "Demo Member",
		Role:                 "member",
		MembershipType:       &tierID,
		MembershipStatus:     catalog.StatusActive,
		MembershipExpiration: &expiration,
		IsActive:             true,
	}
	if err := db.Create(&member).Error; err != nil {
		return err
	}

	profile := models.MemberProfile{
		UserID:               member.ID,
		MembershipType:       &tierID,
		MembershipStatus:     catalog.StatusActive,
		MembershipExpiration: &expiration,
		WeeklyResetDate:      &weeklyReset,
		MonthlyResetDate:     &monthlyReset,
	}
	if err := db.Create(&profile).Error; err != nil {
		return err
	}

	log.Printf("   Created demo member: %s", demoEmail)
	return nil
}

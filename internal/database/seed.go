// internal/database/seed.go
package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/sitewise/siteqa-backend/internal/models"
)

// SeedInitialData creates the default admin user and a pair of standard
// ITP templates on first start so a fresh install is usable immediately.
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Name:   "System Administrator",
			Email:  "admin@siteqa.local",
			Role:   models.UserRoleAdmin,
			Status: models.UserStatusActive,
		}

		if err := admin.SetPassword("ChangeMe123!"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	var templateCount int64
	db.Model(&models.ITPTemplate{}).Count(&templateCount)
	if templateCount > 0 {
		log.Println("Initial data seeding completed")
		return nil
	}

	defaultTemplates := []models.ITPTemplate{
		{
			Name:        "Concrete Works",
			Description: "Inspection test plan for structural concrete placement",
			Category:    "structural",
			IsActive:    true,
			Items: []models.ITPTemplateItem{
				{ItemNumber: "1.1", Description: "Formwork alignment and support", AcceptanceCriteria: "Within +/- 5mm of design line and level", InspectionMethod: "Survey check", IsMandatory: true, SortOrder: 1},
				{ItemNumber: "1.2", Description: "Reinforcement placement", AcceptanceCriteria: "Bar size, spacing and cover per drawings", InspectionMethod: "Visual / measurement", IsMandatory: true, SortOrder: 2},
				{ItemNumber: "1.3", Description: "Pre-pour inspection", AcceptanceCriteria: "Surfaces clean, embedments secured", InspectionMethod: "Hold point - visual", IsMandatory: true, SortOrder: 3},
				{ItemNumber: "1.4", Description: "Concrete slump test", AcceptanceCriteria: "Slump within specified range", InspectionMethod: "AS 1012.3.1", IsMandatory: true, SortOrder: 4},
				{ItemNumber: "1.5", Description: "Curing application", AcceptanceCriteria: "Curing compound or moist curing for 7 days", InspectionMethod: "Visual", IsMandatory: false, SortOrder: 5},
			},
		},
		{
			Name:        "Earthworks",
			Description: "Inspection test plan for bulk earthworks and subgrade",
			Category:    "earthworks",
			IsActive:    true,
			Items: []models.ITPTemplateItem{
				{ItemNumber: "2.1", Description: "Stripping and ground preparation", AcceptanceCriteria: "Topsoil removed, surface proof rolled", InspectionMethod: "Visual / proof roll", IsMandatory: true, SortOrder: 1},
				{ItemNumber: "2.2", Description: "Fill material conformance", AcceptanceCriteria: "Material per specification tables", InspectionMethod: "Laboratory testing", IsMandatory: true, SortOrder: 2},
				{ItemNumber: "2.3", Description: "Layer compaction", AcceptanceCriteria: "Min 95% standard compaction per layer", InspectionMethod: "Density testing", IsMandatory: true, SortOrder: 3},
				{ItemNumber: "2.4", Description: "Finished surface level", AcceptanceCriteria: "Within +/- 25mm of design level", InspectionMethod: "Survey check", IsMandatory: true, SortOrder: 4},
			},
		},
	}

	for i := range defaultTemplates {
		if err := db.Create(&defaultTemplates[i]).Error; err != nil {
			return fmt.Errorf("failed to create template %q: %w", defaultTemplates[i].Name, err)
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

package db

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/oficont/oficont/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed_categories.yaml
var seedCategoriesYAML []byte

// Resources protected by the admin permission gate.
var Resources = []string{"client", "category", "transaction", "report", "config"}

var actionDescriptions = []struct{ action, verb string }{
	{"*", "All %s actions"},
	{"list", "List %s"},
	{"view", "View %s details"},
	{"create", "Create %s"},
	{"update", "Edit %s"},
	{"delete", "Delete %s"},
}

// Seed loads every piece of reference data. It is safe to run repeatedly.
func Seed(conn *gorm.DB) error {
	if err := SeedProfiles(conn); err != nil {
		return fmt.Errorf("seed profiles: %w", err)
	}
	if err := SeedCategories(conn); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := SeedSystemConfig(conn); err != nil {
		return fmt.Errorf("seed system config: %w", err)
	}
	return nil
}

// SeedPermissions creates the resource:action pairs plus the "*:*" wildcard.
func SeedPermissions(conn *gorm.DB) error {
	perms := []models.Permission{{ResourceType: "*", Action: "*", Description: "Full system access"}}
	for _, res := range Resources {
		for _, a := range actionDescriptions {
			perms = append(perms, models.Permission{
				ResourceType: res,
				Action:       a.action,
				Description:  fmt.Sprintf(a.verb, res),
			})
		}
	}
	for _, p := range perms {
		perm := p
		if err := conn.Where("resource_type = ? AND action = ?", p.ResourceType, p.Action).
			FirstOrCreate(&perm).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedProfiles creates the default profiles and (re)assigns their permissions.
func SeedProfiles(conn *gorm.DB) error {
	if err := SeedPermissions(conn); err != nil {
		return err
	}

	profiles := []struct {
		Name        string
		Description string
		Permissions []string
	}{
		{
			Name:        "admin",
			Description: "Full system administrator with all permissions",
			Permissions: []string{"*:*"},
		},
		{
			Name:        "contador",
			Description: "Manage clients, transactions and reports; read categories and settings",
			Permissions: []string{
				"client:*",
				"transaction:*",
				"report:*",
				"category:list",
				"category:view",
				"config:list",
				"config:view",
			},
		},
	}

	for _, p := range profiles {
		profile := models.Profile{Name: p.Name, Description: p.Description}
		if err := conn.Where("name = ?", p.Name).FirstOrCreate(&profile).Error; err != nil {
			return err
		}

		var perms []models.Permission
		for _, code := range p.Permissions {
			resource, action, ok := strings.Cut(code, ":")
			if !ok {
				return fmt.Errorf("malformed permission code %q", code)
			}
			var perm models.Permission
			err := conn.Where("resource_type = ? AND action = ?", resource, action).First(&perm).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			perms = append(perms, perm)
		}
		if err := conn.Model(&profile).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}
	return nil
}

type seedCategory struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// DefaultCategories parses the embedded category list.
func DefaultCategories() ([]models.Category, error) {
	var doc struct {
		Categories []seedCategory `yaml:"categories"`
	}
	if err := yaml.Unmarshal(seedCategoriesYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing seed categories: %w", err)
	}
	out := make([]models.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		t := models.CategoryType(c.Type)
		if !validCategoryType(t) {
			return nil, fmt.Errorf("seed category %q: unknown type %q", c.Name, c.Type)
		}
		out = append(out, models.Category{Name: c.Name, Type: t, Description: c.Description})
	}
	return out, nil
}

func validCategoryType(t models.CategoryType) bool {
	for _, ct := range models.CategoryTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// SeedCategories inserts the default categories missing by (name, type).
func SeedCategories(conn *gorm.DB) error {
	cats, err := DefaultCategories()
	if err != nil {
		return err
	}
	for _, c := range cats {
		cat := c
		if err := conn.Where("name = ? AND type = ?", c.Name, c.Type).FirstOrCreate(&cat).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedSystemConfig creates the configuration row when the table is empty.
func SeedSystemConfig(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.SystemConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	cfg := models.DefaultSystemConfig()
	return conn.Create(&cfg).Error
}

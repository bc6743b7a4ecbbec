package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"crm-platform-backend/internal/config"
	"crm-platform-backend/internal/database"
	"crm-platform-backend/internal/database/models"
	"crm-platform-backend/internal/guard"
	"crm-platform-backend/internal/tenantctx"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Seed structures matching the YAML data file

type TenantData struct {
	Slug    string       `yaml:"slug"`
	Name    string       `yaml:"name"`
	Plan    string       `yaml:"plan"`
	Members []MemberData `yaml:"members"`
}

type MemberData struct {
	Email    string `yaml:"email"`
	FullName string `yaml:"full_name"`
	Role     string `yaml:"role"`
}

type AccountData struct {
	TenantSlug string        `yaml:"tenant_slug"`
	Name       string        `yaml:"name"`
	Website    string        `yaml:"website,omitempty"`
	Status     string        `yaml:"status"`
	Parent     string        `yaml:"parent,omitempty"`
	Contacts   []ContactData `yaml:"contacts,omitempty"`
}

type ContactData struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone,omitempty"`
}

type SeedFile struct {
	Tenants  []TenantData  `yaml:"tenants"`
	Accounts []AccountData `yaml:"accounts"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Initialize(cfg.DatabaseURL, &database.Options{
		LogLevel:    gormlogger.Warn,
		AutoMigrate: true,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	path := "scripts/data/seed.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read seed file %s: %v", path, err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	if err := load(db, &seed); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	log.Printf("Seed complete: %d tenants, %d accounts", len(seed.Tenants), len(seed.Accounts))
}

func load(db *gorm.DB, seed *SeedFile) error {
	// Seeding writes demo rows only; no audit trail is wanted here.
	engine := guard.NewEngine(db, nil)
	tenantsBySlug := make(map[string]*models.Tenant)

	for i := range seed.Tenants {
		tenant, err := upsertTenant(db, &seed.Tenants[i])
		if err != nil {
			return fmt.Errorf("tenant %s: %w", seed.Tenants[i].Slug, err)
		}
		tenantsBySlug[tenant.Slug] = tenant
	}

	for i := range seed.Accounts {
		data := &seed.Accounts[i]
		tenant, ok := tenantsBySlug[data.TenantSlug]
		if !ok {
			return fmt.Errorf("account %s references unknown tenant %s", data.Name, data.TenantSlug)
		}

		// Each tenant's rows are written under that tenant's binding, the
		// same way request handlers write them.
		err := tenantctx.RunAs(context.Background(), tenant.ID, func(ctx context.Context) error {
			return upsertAccount(ctx, engine, data)
		})
		if err != nil {
			return fmt.Errorf("account %s: %w", data.Name, err)
		}
	}

	return nil
}

func upsertTenant(db *gorm.DB, data *TenantData) (*models.Tenant, error) {
	var tenant models.Tenant
	err := db.First(&tenant, "slug = ?", data.Slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		plan := models.TenantPlan(data.Plan)
		if data.Plan == "" {
			plan = models.TenantPlanFree
		}
		tenant = models.Tenant{
			Slug:   data.Slug,
			Name:   data.Name,
			Plan:   plan,
			Status: models.TenantStatusActive,
		}
		if err := db.Create(&tenant).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	for _, m := range data.Members {
		user, err := upsertUser(db, m.Email, m.FullName)
		if err != nil {
			return nil, err
		}

		role := models.MembershipRole(m.Role)
		if m.Role == "" {
			role = models.MembershipRoleMember
		}

		var membership models.TenantMembership
		err = db.First(&membership, "tenant_id = ? AND user_id = ?", tenant.ID, user.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			membership = models.TenantMembership{
				TenantID: tenant.ID,
				UserID:   user.ID,
				Role:     role,
			}
			if err := db.Create(&membership).Error; err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
	}

	return &tenant, nil
}

func upsertUser(db *gorm.DB, email, fullName string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{Email: email, FullName: fullName, IsActive: true}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}

func upsertAccount(ctx context.Context, engine *guard.Engine, data *AccountData) error {
	existing, err := guard.First[models.Account](ctx, engine, guard.Where("name = ?", data.Name))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	account := existing
	if account == nil {
		status := models.AccountStatus(data.Status)
		if data.Status == "" {
			status = models.AccountStatusProspect
		}

		account = &models.Account{
			Name:    data.Name,
			Website: data.Website,
			Status:  status,
		}
		if data.Parent != "" {
			parent, err := guard.First[models.Account](ctx, engine, guard.Where("name = ?", data.Parent))
			if err != nil {
				return fmt.Errorf("parent %s: %w", data.Parent, err)
			}
			account.ParentID = &parent.ID
		}
		if err := guard.Create(ctx, engine, account); err != nil {
			return err
		}
	}

	for _, c := range data.Contacts {
		existing, err := guard.First[models.Contact](ctx, engine, guard.Where("email = ?", c.Email))
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			continue
		}

		contact := &models.Contact{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			AccountID: &account.ID,
		}
		if err := guard.Create(ctx, engine, contact); err != nil {
			return err
		}
	}

	return nil
}

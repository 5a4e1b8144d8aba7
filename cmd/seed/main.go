// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"comercia/internal/core/id"
	"comercia/internal/domain/auth"
	"comercia/internal/infrastructure/storage/postgres"
	"comercia/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedStatuses(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed statuses", "error", err)
	}

	if err := seedPaymentMethods(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed payment methods", "error", err)
	}

	adminUserID, err := seedAdminUser(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log, adminUserID); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedStatuses inserts the lifecycle statuses the engine depends on.
// Soft deletion reassigns a transaction to the "deleted" status, so the
// row must exist before the first delete.
func seedStatuses(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	statuses := []struct {
		name        string
		description string
	}{
		{"active", "Entity is in use"},
		{"deleted", "Entity is soft-deleted, kept for history"},
	}

	for _, s := range statuses {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_entity_status (id, name, description, version, created_at, updated_at)
			VALUES ($1, $2, $3, 1, NOW(), NOW())
			ON CONFLICT (name) DO NOTHING
		`, id.New(), s.name, s.description)
		if err != nil {
			return fmt.Errorf("insert status %q: %w", s.name, err)
		}
	}

	log.Info("statuses seeded")
	return nil
}

// seedPaymentMethods inserts the shared payment method catalog.
func seedPaymentMethods(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	methods := []string{"cash", "card", "bank transfer"}

	for _, name := range methods {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_payment_method (id, name, version, created_at, updated_at)
			VALUES ($1, $2, 1, NOW(), NOW())
			ON CONFLICT (name) DO NOTHING
		`, id.New(), name)
		if err != nil {
			return fmt.Errorf("insert payment method %q: %w", name, err)
		}
	}

	log.Info("payment methods seeded")
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@comercia.io"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM sys_user WHERE email = $1 AND deleted_at IS NULL`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO sys_user (
			id, email, password_hash, first_name, last_name, role,
			is_active, is_admin, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, 'System', 'Admin', $4, true, true, NOW(), NOW(), 1)
	`, userID, adminEmail, string(passwordHash), auth.RoleOwner)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created",
		"email", adminEmail,
		"user_id", userID,
	)

	return userID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger, adminUserID id.ID) error {
	log.Info("seeding demo data...")

	// 1. Demo business owned by the admin user
	businessID := id.New()
	businessName := "Demo Store"

	var existingBusinessID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM cat_business WHERE owner_id = $1 AND name = $2`,
		adminUserID, businessName,
	).Scan(&existingBusinessID)
	switch {
	case err == nil:
		businessID = existingBusinessID
		log.Infow("demo business already exists", "business_id", businessID)
	case errors.Is(err, pgx.ErrNoRows):
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO cat_business (id, name, owner_id, description, version, created_at, updated_at)
			VALUES ($1, $2, $3, 'Demo business for evaluation', 1, NOW(), NOW())
		`, businessID, businessName, adminUserID)
		if err != nil {
			return fmt.Errorf("insert demo business: %w", err)
		}

		// Attach the business to the admin account so the next login
		// carries the claim.
		_, err = pool.Pool.Exec(ctx, `
			UPDATE sys_user SET business_id = $1, updated_at = NOW() WHERE id = $2
		`, businessID, adminUserID)
		if err != nil {
			log.Warnw("failed to attach demo business to admin", "error", err)
		}
	default:
		return fmt.Errorf("check demo business exists: %w", err)
	}

	// 2. Categories
	categories := []string{"Stationery", "Electronics", "Services"}
	categoryIDs := make(map[string]id.ID)

	for _, name := range categories {
		catID := id.New()
		var existing id.ID
		err := pool.Pool.QueryRow(ctx,
			`SELECT id FROM cat_category WHERE business_id = $1 AND name = $2`,
			businessID, name,
		).Scan(&existing)
		switch {
		case err == nil:
			catID = existing
		case errors.Is(err, pgx.ErrNoRows):
			_, err = pool.Pool.Exec(ctx, `
				INSERT INTO cat_category (id, name, business_id, version, created_at, updated_at)
				VALUES ($1, $2, $3, 1, NOW(), NOW())
			`, catID, name, businessID)
			if err != nil {
				log.Warnw("failed to seed category", "name", name, "error", err)
				continue
			}
		default:
			return fmt.Errorf("check category exists: %w", err)
		}
		categoryIDs[name] = catID
	}

	// 3. Products
	products := []struct {
		name     string
		sku      string
		price    string
		stock    int64
		category string
	}{
		{"A4 paper pack", "PAP-A4", "4.50", 120, "Stationery"},
		{"Ballpoint pen", "PEN-BLU", "0.80", 500, "Stationery"},
		{"Desktop stapler", "STP-001", "6.20", 35, "Stationery"},
		{"USB-C cable 1m", "USB-C1M", "9.90", 80, "Electronics"},
		{"Delivery", "DELIVERY", "15.00", 0, "Services"},
	}

	for _, p := range products {
		var categoryID any
		if catID, ok := categoryIDs[p.category]; ok {
			categoryID = catID
		}

		var existing id.ID
		err := pool.Pool.QueryRow(ctx,
			`SELECT id FROM cat_product WHERE business_id = $1 AND sku = $2`,
			businessID, p.sku,
		).Scan(&existing)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("check product exists: %w", err)
		}

		productID := id.New()
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO cat_product (
				id, name, business_id, sku, category_id, base_price, stock,
				version, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 1, NOW(), NOW())
		`, productID, p.name, businessID, p.sku, categoryID, p.price, p.stock)
		if err != nil {
			log.Warnw("failed to seed product", "name", p.name, "error", err)
			continue
		}

		// The movement ledger must explain every unit of stock, so the
		// opening balance gets its own entry row.
		if p.stock > 0 {
			_, err = pool.Pool.Exec(ctx, `
				INSERT INTO reg_stock_movement (id, product_id, type, quantity, note, created_at)
				VALUES ($1, $2, 'entry', $3, 'opening balance', NOW())
			`, id.New(), productID, p.stock)
			if err != nil {
				log.Warnw("failed to seed opening movement", "name", p.name, "error", err)
			}
		}
	}

	log.Info("demo data seeded successfully")
	return nil
}

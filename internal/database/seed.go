package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with a small demo catalog for development:
// one root with two branches and a handful of products. It is a no-op
// when any category already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var rootID int64
	err = tx.QueryRow(`
		INSERT INTO categories (name, parent_id, sort_order)
		VALUES ('Catalog', NULL, 0) RETURNING id
	`).Scan(&rootID)
	if err != nil {
		return fmt.Errorf("seed root category: %w", err)
	}

	branches := []struct {
		name     string
		products []string
	}{
		{name: "Tools", products: []string{"Claw Hammer", "Socket Wrench Set", "Torpedo Level"}},
		{name: "Hardware", products: []string{"Wood Screws 4x40", "Hex Bolts M8"}},
	}

	for i, branch := range branches {
		var branchID int64
		err = tx.QueryRow(`
			INSERT INTO categories (name, parent_id, sort_order)
			VALUES ($1, $2, $3) RETURNING id
		`, branch.name, rootID, i).Scan(&branchID)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", branch.name, err)
		}

		for j, product := range branch.products {
			_, err = tx.Exec(`
				INSERT INTO products (name, price, description, images, category_id)
				VALUES ($1, $2, $3, '[]', $4)
			`, product, float64(5+3*j), "Demo product.", branchID)
			if err != nil {
				return fmt.Errorf("seed product %s: %w", product, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo catalog", "categories", 3, "products", 5)
	return nil
}

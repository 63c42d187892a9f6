package catalogdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/craftline/storefront/internal/catalog"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

type RepoInterface interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	Close() error
	RunMigrations(string) error
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// ListProducts returns the full catalog with per-variation stock, the
// payload the cart service snapshots at startup.
func (r *Repository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	query := `
		SELECT id, name, description, price, image_url
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	index := make(map[string]int)
	for rows.Next() {
		var p catalog.Product
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		index[p.ID] = len(products)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if err := r.attachVariations(ctx, products, index); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *Repository) attachVariations(ctx context.Context, products []catalog.Product, index map[string]int) error {
	query := `
		SELECT product_id, color, size, quantity
		FROM product_variations
		ORDER BY product_id, color, size
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query variations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		var v catalog.Variation
		if err := rows.Scan(&productID, &v.Color, &v.Size, &v.Quantity); err != nil {
			return fmt.Errorf("failed to scan variation: %w", err)
		}
		if i, ok := index[productID]; ok {
			products[i].Variations = append(products[i].Variations, v)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

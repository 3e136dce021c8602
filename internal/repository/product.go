package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/storage/db"
)

type CreateProductParams struct {
	Name        string
	Description *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type UpdateProductParams struct {
	ID          int64
	Name        string
	Description *string
	IsActive    bool
	UpdatedAt   time.Time
}

type ListProductsParams struct {
	// IsActive filters on the active flag when set.
	IsActive *bool
	// NameContains filters products whose name contains the given fragment,
	// case-insensitively.
	NameContains string
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) (model.Product, error)
	SetProductsActive(ctx context.Context, ids []int64, active bool, updatedAt time.Time) (int64, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (model.Product, error) {
	var product model.Product
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	return product, err
}

func (r productRepository) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, is_active, created_at, updated_at)
		VALUES (@name, @description, @is_active, @created_at, @updated_at)
		RETURNING `+productColumns+`
	`, pgx.NamedArgs{
		"name":        params.Name,
		"description": params.Description,
		"is_active":   params.IsActive,
		"created_at":  params.CreatedAt,
		"updated_at":  params.UpdatedAt,
	})

	product, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (r productRepository) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = @id
	`, pgx.NamedArgs{"id": id})

	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE (@is_active::boolean IS NULL OR is_active = @is_active)
		  AND (@name_contains = '' OR name ILIKE '%' || @name_contains || '%')
		ORDER BY id
	`, pgx.NamedArgs{
		"is_active":     params.IsActive,
		"name_contains": params.NameContains,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (r productRepository) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE products
		SET name = @name, description = @description, is_active = @is_active, updated_at = @updated_at
		WHERE id = @id
		RETURNING `+productColumns+`
	`, pgx.NamedArgs{
		"id":          params.ID,
		"name":        params.Name,
		"description": params.Description,
		"is_active":   params.IsActive,
		"updated_at":  params.UpdatedAt,
	})

	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id int64) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		DELETE FROM products WHERE id = @id
		RETURNING `+productColumns+`
	`, pgx.NamedArgs{"id": id})

	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("delete product: %w", err)
	}

	return product, nil
}

func (r productRepository) SetProductsActive(ctx context.Context, ids []int64, active bool, updatedAt time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET is_active = @is_active, updated_at = @updated_at
		WHERE id = ANY(@ids)
	`, pgx.NamedArgs{
		"ids":        ids,
		"is_active":  active,
		"updated_at": updatedAt,
	})
	if err != nil {
		return 0, fmt.Errorf("set products active: %w", err)
	}

	return tag.RowsAffected(), nil
}

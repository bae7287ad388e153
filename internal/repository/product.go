package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nesquaeke/smartshop/internal/model"
	"github.com/nesquaeke/smartshop/internal/storage/db"
)

type ListProductsParams struct {
	CategorySlug string
	Search       string
	Limit        int32
	Offset       int32
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
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

const productColumns = `
	p.id, p.name, p.description, p.brand, p.category_id, c.name,
	p.unit, p.image_url, p.created_at, p.updated_at`

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE (@category_slug = '' OR c.slug = @category_slug)
		  AND (@search = '' OR LOWER(p.name) LIKE '%' || LOWER(@search) || '%')
		ORDER BY p.name, p.id
		LIMIT @limit OFFSET @offset
	`, pgx.NamedArgs{
		"category_slug": params.CategorySlug,
		"search":        params.Search,
		"limit":         params.Limit,
		"offset":        params.Offset,
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
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r productRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var category model.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var product model.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Brand,
		&product.CategoryID,
		&product.Category,
		&product.Unit,
		&product.ImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

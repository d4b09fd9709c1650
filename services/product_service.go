package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nutriDayAPI/internal/product"
)

type ProductService struct {
	db *pgxpool.Pool
}

func NewProductService(db *pgxpool.Pool) *ProductService {
	return &ProductService{db: db}
}

// ListProducts returns global catalog items plus the caller's own, with an
// optional name/brand filter.
func (s *ProductService) ListProducts(ctx context.Context, clerkID string, search string) ([]*product.Product, error) {
	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, owner_id, name, brand, serving_amount, serving_unit, calories, protein, carbs, fat, fiber, created_at, updated_at
	FROM products
	WHERE (owner_id IS NULL OR owner_id = $1)
	  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR brand ILIKE '%' || $2 || '%')
	ORDER BY owner_id IS NULL, name
	LIMIT 100
	`

	rows, err := s.db.Query(ctx, query, userID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p := &product.Product{}
		err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.Name,
			&p.Brand,
			&p.ServingAmount,
			&p.ServingUnit,
			&p.Calories,
			&p.Protein,
			&p.Carbs,
			&p.Fat,
			&p.Fiber,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if products == nil {
		products = []*product.Product{}
	}

	return products, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, clerkID string, req *product.CreateProductRequest) (*product.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}

	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	p := &product.Product{
		ID:            uuid.New(),
		OwnerID:       &userID,
		Name:          req.Name,
		Brand:         req.Brand,
		ServingAmount: req.ServingAmount,
		ServingUnit:   req.ServingUnit,
		Calories:      req.Calories,
		Protein:       req.Protein,
		Carbs:         req.Carbs,
		Fat:           req.Fat,
		Fiber:         req.Fiber,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if p.ServingAmount == 0 {
		p.ServingAmount = 100
	}
	if p.ServingUnit == "" {
		p.ServingUnit = "g"
	}

	_, err = s.db.Exec(ctx, `
	INSERT INTO products (id, owner_id, name, brand, serving_amount, serving_unit, calories, protein, carbs, fat, fiber, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		p.ID, p.OwnerID, p.Name, p.Brand, p.ServingAmount, p.ServingUnit,
		p.Calories, p.Protein, p.Carbs, p.Fat, p.Fiber, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return p, nil
}

// UpdateProduct patches an owned product. Global items cannot be edited.
func (s *ProductService) UpdateProduct(ctx context.Context, clerkID string, productID uuid.UUID, req *product.UpdateProductRequest) (*product.Product, error) {
	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	UPDATE products
	SET
		name = COALESCE(NULLIF($3, ''), name),
		brand = COALESCE($4, brand),
		serving_amount = COALESCE($5, serving_amount),
		serving_unit = COALESCE(NULLIF($6, ''), serving_unit),
		calories = COALESCE($7, calories),
		protein = COALESCE($8, protein),
		carbs = COALESCE($9, carbs),
		fat = COALESCE($10, fat),
		fiber = COALESCE($11, fiber),
		updated_at = NOW()
	WHERE id = $1 AND owner_id = $2
	RETURNING id, owner_id, name, brand, serving_amount, serving_unit, calories, protein, carbs, fat, fiber, created_at, updated_at
	`

	p := &product.Product{}
	err = s.db.QueryRow(ctx, query,
		productID, userID, req.Name, req.Brand, req.ServingAmount, req.ServingUnit,
		req.Calories, req.Protein, req.Carbs, req.Fat, req.Fiber,
	).Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Brand,
		&p.ServingAmount,
		&p.ServingUnit,
		&p.Calories,
		&p.Protein,
		&p.Carbs,
		&p.Fat,
		&p.Fiber,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, clerkID string, productID uuid.UUID) error {
	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1 AND owner_id = $2`, productID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: product", ErrNotFound)
	}

	return nil
}

func (s *ProductService) resolveUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return userID, nil
}

package sqlite

import (
	"context"

	"salesauth/internal/domain"
)

type productsRepo struct {
	db dbtx
}

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, is_deleted, created_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		p.ID, p.Name, p.IsDeleted)
	return mapConstraint(err)
}

func (r *productsRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, is_deleted, created_at
		 FROM products
		 WHERE is_deleted = 0
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.IsDeleted, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"rjcreations/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, name, price, image, description
	  FROM products
	  ORDER BY id
	`)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`
	  SELECT id, name, price, image, description
	  FROM products
	  WHERE id = ?
	`), id)
	return p, storeErr(err)
}

// Delete removes a product permanently. Returns domain.ErrNotFound if nothing matched.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

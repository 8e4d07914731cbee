package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"rjcreations/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts u and returns it with its new id. A duplicate email yields domain.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	err := r.DB.GetContext(ctx, &u.ID, r.DB.Rebind(`
		INSERT INTO users(email,password_hash,is_admin)
		VALUES(?,?,?)
		RETURNING id
	`), u.Email, u.Hash, u.IsAdmin)
	if err != nil {
		return domain.User{}, storeErr(err)
	}
	return u, nil
}

// ByEmail is an exact, case-sensitive match.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT id,email,password_hash,is_admin FROM users WHERE email=?`), email)
	if err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT id,email,password_hash,is_admin FROM users WHERE id=?`), id)
	if err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}

package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"rjcreations/internal/domain"
)

// OpenDB connects to Postgres when dsn is a postgres URL and to a SQLite file otherwise,
// then creates the schema and seeds the catalog if it is empty.
func OpenDB(dsn string) (*sqlx.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if strings.Contains(dsn, ":memory:") {
		// every sqlite connection gets its own in-memory database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return db, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  price REAL NOT NULL CHECK (price >= 0),
  image TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS checkout_intents(
  session_id TEXT NOT NULL,
  fingerprint TEXT NOT NULL,
  order_id TEXT NOT NULL,
  amount INTEGER NOT NULL,
  currency TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (session_id, fingerprint)
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users(
  id BIGSERIAL PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_admin BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS products(
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
  image TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS checkout_intents(
  session_id TEXT NOT NULL,
  fingerprint TEXT NOT NULL,
  order_id TEXT NOT NULL,
  amount BIGINT NOT NULL,
  currency TEXT NOT NULL,
  created_at TIMESTAMPTZ DEFAULT NOW(),
  PRIMARY KEY (session_id, fingerprint)
);
`

func ensureSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == "pgx" {
		schema = postgresSchema
	}
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()
	seed := []domain.Product{
		{Name: "Custom Mug", Price: 15.99, Image: "mug.jpg", Description: "A personalized mug."},
		{Name: "Photo T-Shirt", Price: 20.00, Image: "shirt.jpg", Description: "T-shirt with custom print."},
		{Name: "Personalized Pillow", Price: 18.50, Image: "pillow.jpg", Description: "Soft pillow with photo."},
	}
	for _, p := range seed {
		if _, err := tx.NamedExec(`INSERT INTO products(name,price,image,description)
			VALUES(:name,:price,:image,:description)`, p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SeedAdmin makes email an admin account. A missing account is created with passwordHash;
// an existing non-admin account is promoted and keeps its own password, reported by promoted.
func SeedAdmin(ctx context.Context, db *sqlx.DB, email, passwordHash string) (promoted bool, err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var isAdmin bool
	err = tx.GetContext(ctx, &isAdmin, tx.Rebind(`SELECT is_admin FROM users WHERE email=?`), email)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO users(email,password_hash,is_admin)
			VALUES(?,?,?)
		`), email, passwordHash, true)
	case err != nil:
	case !isAdmin:
		promoted = true
		_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE users SET is_admin=? WHERE email=?`), true, email)
	}
	if err != nil {
		return false, storeErr(err)
	}
	return promoted, tx.Commit()
}

// storeErr maps driver errors onto the domain taxonomy.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%w: %s", domain.ErrConflict, se.Error())
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

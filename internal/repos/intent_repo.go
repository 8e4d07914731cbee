package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"rjcreations/internal/domain"
)

// IntentRepo memoizes gateway orders per (session, cart fingerprint). Rows older than TTL
// are ignored on read and pruned on write.
type IntentRepo struct {
	db  *sqlx.DB
	TTL time.Duration
	now func() time.Time
}

func NewIntentRepo(db *sqlx.DB) *IntentRepo {
	return &IntentRepo{db: db, TTL: domain.IntentTTL, now: time.Now}
}

type intentRow struct {
	OrderID  string `db:"order_id"`
	Amount   int64  `db:"amount"`
	Currency string `db:"currency"`
}

// cutoff is the oldest created_at still served. SQLite keeps CURRENT_TIMESTAMP as UTC
// text, which orders correctly against the same layout.
func (r *IntentRepo) cutoff() any {
	t := r.now().Add(-r.TTL).UTC()
	if r.db.DriverName() == "pgx" {
		return t
	}
	return t.Format("2006-01-02 15:04:05")
}

func (r *IntentRepo) GetIntent(ctx context.Context, sessionID, fingerprint string) (domain.PaymentIntent, error) {
	var row intentRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
	  SELECT order_id, amount, currency
	  FROM checkout_intents
	  WHERE session_id = ? AND fingerprint = ? AND created_at >= ?
	`), sessionID, fingerprint, r.cutoff())
	if err != nil {
		return domain.PaymentIntent{}, storeErr(err)
	}
	return domain.PaymentIntent{OrderID: row.OrderID, Amount: row.Amount, Currency: row.Currency, AutoCapture: true}, nil
}

// PutIntent replaces whatever the session had memoized and drops expired rows of any session.
func (r *IntentRepo) PutIntent(ctx context.Context, sessionID, fingerprint string, in domain.PaymentIntent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
	  DELETE FROM checkout_intents WHERE session_id = ? OR created_at < ?
	`), sessionID, r.cutoff()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`
	  INSERT INTO checkout_intents(session_id, fingerprint, order_id, amount, currency)
	  VALUES(?, ?, ?, ?, ?)
	`), sessionID, fingerprint, in.OrderID, in.Amount, in.Currency); err != nil {
		return err
	}
	return tx.Commit()
}

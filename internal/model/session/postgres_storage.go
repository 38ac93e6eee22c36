package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/finance-dashboard/internal/entity/budget"
	"max.ks1230/finance-dashboard/internal/entity/goals"
	"max.ks1230/finance-dashboard/internal/entity/ledger"
	"max.ks1230/finance-dashboard/internal/logger"
)

// Expected schema:
//
//	sessions         (id TEXT PRIMARY KEY, role TEXT, paystub_text TEXT, updated_at TIMESTAMPTZ)
//	session_limits   (session_id TEXT, category TEXT, cap DOUBLE PRECISION, PRIMARY KEY (session_id, category))
//	session_expenses (session_id TEXT, ord INT, amount DOUBLE PRECISION, category TEXT,
//	                  spent_at TIMESTAMPTZ, month TIMESTAMPTZ, PRIMARY KEY (session_id, ord))

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

// PostgresStorage persists session state so a deployment survives restarts.
// Each save replaces the session's limits and ledger wholesale, matching the
// per-upload replacement semantics of the in-memory backend.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, id string) (State, error) {
	query := psql.Select("role", "paystub_text").
		From("sessions").
		Where(sq.Eq{"id": id})

	st := NewState()
	var role string
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&role, &st.PaystubText)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return State{}, errors.Wrap(err, "get session")
	}
	st.Role = goals.Role(role)

	limits, err := s.getLimits(ctx, id)
	if err != nil {
		return State{}, err
	}
	for cat, lim := range limits {
		st.Limits[cat] = lim
	}

	st.Ledger, err = s.getLedger(ctx, id)
	if err != nil {
		return State{}, err
	}
	return st, nil
}

func (s *PostgresStorage) getLimits(ctx context.Context, id string) (budget.Limits, error) {
	query := psql.Select("category", "cap").
		From("session_limits").
		Where(sq.Eq{"session_id": id})

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get limits")
	}
	defer closeRows(rows)

	limits := make(budget.Limits)
	for rows.Next() {
		var cat string
		var lim float64
		if err = rows.Scan(&cat, &lim); err != nil {
			return nil, errors.Wrap(err, "get limits")
		}
		limits[cat] = lim
	}
	return limits, errors.Wrap(rows.Err(), "get limits")
}

func (s *PostgresStorage) getLedger(ctx context.Context, id string) (ledger.Ledger, error) {
	query := psql.Select("amount", "category", "spent_at", "month").
		From("session_expenses").
		Where(sq.Eq{"session_id": id}).
		OrderBy("ord")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get ledger")
	}
	defer closeRows(rows)

	res := make(ledger.Ledger, 0)
	for rows.Next() {
		var rec ledger.ExpenseRecord
		if err = rows.Scan(&rec.Amount, &rec.Category, &rec.Date, &rec.Month); err != nil {
			return nil, errors.Wrap(err, "get ledger")
		}
		res = append(res, rec)
	}
	return res, errors.Wrap(rows.Err(), "get ledger")
}

func (s *PostgresStorage) SaveByID(ctx context.Context, id string, st State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "save session")
	}
	defer func() {
		if txErr := tx.Rollback(); txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			logger.Error("transaction rollback", zap.Error(txErr))
		}
	}()

	upsert := psql.Insert("sessions").
		Columns("id", "role", "paystub_text", "updated_at").
		Values(id, string(st.Role), st.PaystubText, time.Now()).
		Suffix("ON CONFLICT(id) DO UPDATE SET role = ?, paystub_text = ?, updated_at = ?",
			string(st.Role), st.PaystubText, time.Now())
	if _, err = upsert.RunWith(tx).ExecContext(ctx); err != nil {
		return errors.Wrap(err, "save session")
	}

	if err = s.replaceLimits(ctx, tx, id, st.Limits); err != nil {
		return err
	}
	if err = s.replaceLedger(ctx, tx, id, st.Ledger); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "save session")
}

func (s *PostgresStorage) replaceLimits(ctx context.Context, tx *sql.Tx, id string, limits budget.Limits) error {
	del := psql.Delete("session_limits").Where(sq.Eq{"session_id": id})
	if _, err := del.RunWith(tx).ExecContext(ctx); err != nil {
		return errors.Wrap(err, "save limits")
	}
	if len(limits) == 0 {
		return nil
	}

	ins := psql.Insert("session_limits").Columns("session_id", "category", "cap")
	for cat, lim := range limits {
		ins = ins.Values(id, cat, lim)
	}
	_, err := ins.RunWith(tx).ExecContext(ctx)
	return errors.Wrap(err, "save limits")
}

func (s *PostgresStorage) replaceLedger(ctx context.Context, tx *sql.Tx, id string, l ledger.Ledger) error {
	del := psql.Delete("session_expenses").Where(sq.Eq{"session_id": id})
	if _, err := del.RunWith(tx).ExecContext(ctx); err != nil {
		return errors.Wrap(err, "save ledger")
	}
	if len(l) == 0 {
		return nil
	}

	ins := psql.Insert("session_expenses").
		Columns("session_id", "ord", "amount", "category", "spent_at", "month")
	for i, rec := range l {
		ins = ins.Values(id, i, rec.Amount, rec.Category, rec.Date, rec.Month)
	}
	_, err := ins.RunWith(tx).ExecContext(ctx)
	return errors.Wrap(err, "save ledger")
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.Error("closing rows", zap.Error(err))
	}
}

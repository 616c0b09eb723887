package postgres

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/go-faster/errors"

	"companyscan/pkg/storage"
)

// Begin returns a copy of p bound to a new transaction.
func (p *PgSQL) Begin(ctx context.Context) (storage.TxStorage, error) {
	db, ok := p.DB.(*sql.DB)
	if !ok {
		return nil, storage.ErrAlreadyInTx
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not begin tx")
	}

	return &PgSQL{DB: tx, Builder: goqu.NewTx("postgres", tx)}, nil
}

func (p *PgSQL) Commit() error {
	tx, ok := p.DB.(*sql.Tx)
	if !ok {
		return storage.ErrNotInTx
	}

	return errors.Wrap(tx.Commit(), "could not commit tx")
}

func (p *PgSQL) Rollback() error {
	tx, ok := p.DB.(*sql.Tx)
	if !ok {
		return storage.ErrNotInTx
	}

	return errors.Wrap(tx.Rollback(), "could not rollback tx")
}

// WithTx runs cb on a transactional copy of p. The transaction commits when
// cb returns nil and rolls back when it fails or panics.
func (p *PgSQL) WithTx(ctx context.Context, cb func(storage storage.AllStorage) error) error {
	tx, err := p.Begin(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := cb(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	return nil
}

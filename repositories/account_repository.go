package repositories

import (
	"context"
	"errors"
	"fmt"

	"rental-admin/models"

	"github.com/jackc/pgx/v5"
)

const accountColumns = "id::text AS id, email, password_hash, created_at"

// AccountRepository stores login credentials. Profile data, role included,
// lives in users.
type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM auth_accounts WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM auth_accounts WHERE id = $1::text::uuid`, id)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}

	account, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Register creates the credential row and the matching users row in one
// transaction.
func (r *AccountRepository) Register(ctx context.Context, email, passwordHash, role string, profile map[string]any) (*models.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO auth_accounts (email, password_hash)
		VALUES ($1, $2)
		RETURNING id::text
	`, email, passwordHash).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	values := map[string]any{"email": email, "role": role}
	for k, v := range profile {
		values[k] = v
	}
	st, err := UserSchema.BuildInsertKeyed(id, values)
	if err != nil {
		return nil, err
	}

	user, err := NewTable[models.User](tx, UserSchema).one(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.Exec(ctx, `UPDATE auth_accounts SET password_hash = $1 WHERE id = $2::text::uuid`, passwordHash, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

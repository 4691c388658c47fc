package user

import (
	"context"
	"errors"
	"time"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/db"

	"github.com/jackc/pgx/v4"
)

type PgxResetTokenRepository struct {
	db db.DBTX
}

func NewPgxResetTokenRepository(db db.DBTX) *PgxResetTokenRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxResetTokenRepository{db: db}
}

func (r *PgxResetTokenRepository) Create(
	ctx context.Context,
	input user.CreateResetTokenInput,
) (t user.ResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO password_reset_token (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING token, user_id, expires_at`,
		string(input.Token),
		int64(input.UserID),
		input.ExpiresAt,
	)
	return scanResetToken(row)
}

func (r *PgxResetTokenRepository) GetByToken(
	ctx context.Context,
	token user.ResetTokenValue,
) (t user.ResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT token, user_id, expires_at FROM password_reset_token WHERE token = $1`,
		string(token),
	)
	t, err = scanResetToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, user.ErrResetTokenDoesNotExist
	}
	return t, err
}

func (r *PgxResetTokenRepository) DeleteByToken(ctx context.Context, token user.ResetTokenValue) error {
	commandTag, err := r.db.Exec(
		ctx,
		`DELETE FROM password_reset_token WHERE token = $1`,
		string(token),
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrResetTokenDoesNotExist
	}
	return nil
}

func (r *PgxResetTokenRepository) DeleteAllForUser(ctx context.Context, userID user.ID) error {
	_, err := r.db.Exec(
		ctx,
		`DELETE FROM password_reset_token WHERE user_id = $1`,
		int64(userID),
	)
	return err
}

func (r *PgxResetTokenRepository) DeleteAllExpiredSince(
	ctx context.Context,
	now time.Time,
) (count int64, err error) {
	commandTag, err := r.db.Exec(
		ctx,
		`DELETE FROM password_reset_token WHERE expires_at < $1`,
		now,
	)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}

func scanResetToken(row pgx.Row) (t user.ResetToken, err error) {
	var token string
	var userID int64
	err = row.Scan(&token, &userID, &t.ExpiresAt)
	if err != nil {
		return t, err
	}
	t.Token = user.ResetTokenValue(token)
	t.UserID = user.ID(userID)
	return t, nil
}

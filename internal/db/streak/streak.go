package streak

import (
	"context"
	"errors"
	"time"
	"vitalance/internal/core/domain/streak"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/db"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"

type PgxStreakRepository struct {
	db db.DBTX
}

func NewPgxRepository(db db.DBTX) *PgxStreakRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxStreakRepository{db: db}
}

func (r *PgxStreakRepository) Create(
	ctx context.Context,
	input streak.CreateRecordInput,
) (rec streak.Record, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO user_streak (user_id, current_streak, last_login_date, version)
		VALUES ($1, $2, $3, 1)
		RETURNING user_id, current_streak, last_login_date, version`,
		int64(input.UserID),
		input.CurrentStreak,
		encodeDate(input.LastLoginDate),
	)
	rec, err = scanRecord(row)

	// A concurrent creator winning the insert race surfaces the same way as
	// a lost versioned update, the caller re-reads and retries.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE {
		return rec, streak.ErrVersionConflict
	}
	return rec, err
}

func (r *PgxStreakRepository) GetByUserID(
	ctx context.Context,
	userID user.ID,
) (rec streak.Record, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT user_id, current_streak, last_login_date, version
		FROM user_streak WHERE user_id = $1`,
		int64(userID),
	)
	rec, err = scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, streak.ErrRecordDoesNotExist
	}
	return rec, err
}

func (r *PgxStreakRepository) Update(
	ctx context.Context,
	input streak.UpdateRecordInput,
) (rec streak.Record, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE user_streak
		SET current_streak = $1, last_login_date = $2, version = version + 1
		WHERE user_id = $3 AND version = $4
		RETURNING user_id, current_streak, last_login_date, version`,
		input.CurrentStreak,
		encodeDate(input.LastLoginDate),
		int64(input.UserID),
		int64(input.ReadVersion),
	)
	rec, err = scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, streak.ErrVersionConflict
	}
	return rec, err
}

func encodeDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Status: pgtype.Present}
}

func scanRecord(row pgx.Row) (rec streak.Record, err error) {
	var userID, version int64
	var lastLoginDate pgtype.Date
	err = row.Scan(&userID, &rec.CurrentStreak, &lastLoginDate, &version)
	if err != nil {
		return rec, err
	}
	rec.UserID = user.ID(userID)
	rec.LastLoginDate = lastLoginDate.Time
	rec.Version = streak.Version(version)
	return rec, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/canova-hq/canova-server/model"
	"github.com/mattn/go-sqlite3"
)

func (s *Store) InsertUser(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user (
			id, name, email, password_hash, mobile, location, theme,
			otp_code, otp_expires_at, reset_token, reset_expires_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Mobile, u.Location, u.Theme,
		u.OTPCode, nullTime(u.OTPExpiresAt), u.ResetToken, nullTime(u.ResetExpires),
		u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return model.Conflict("Email already in use")
	}
	return err
}

func (s *Store) UpdateUser(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE user SET
			name = ?, email = ?, password_hash = ?, mobile = ?, location = ?, theme = ?,
			otp_code = ?, otp_expires_at = ?, reset_token = ?, reset_expires_at = ?,
			updated_at = ?
		WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, u.Mobile, u.Location, u.Theme,
		u.OTPCode, nullTime(u.OTPExpiresAt), u.ResetToken, nullTime(u.ResetExpires),
		u.UpdatedAt, u.ID,
	)
	if isUniqueViolation(err) {
		return model.Conflict("Email already in use")
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return model.NotFound("User not found")
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, userSelect+`WHERE id = ?`, id))
}

func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, userSelect+`WHERE email = ?`, email))
}

const userSelect = `
	SELECT id, name, email, password_hash, mobile, location, theme,
		otp_code, otp_expires_at, reset_token, reset_expires_at,
		created_at, updated_at
	FROM user
	`

func (s *Store) scanUser(row *sql.Row) (u model.User, err error) {
	var otpExpires, resetExpires sql.NullTime
	err = row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Mobile, &u.Location, &u.Theme,
		&u.OTPCode, &otpExpires, &u.ResetToken, &resetExpires,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		err = model.NotFound("User not found")
	}
	u.OTPExpiresAt = otpExpires.Time
	u.ResetExpires = resetExpires.Time
	return
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

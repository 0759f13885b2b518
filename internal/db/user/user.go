package user

import (
	"context"
	"database/sql"
	"errors"
	c "happystack/internal/core/domain/common"
	"happystack/internal/core/domain/user"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const (
	EMAIL_CONSTRAINT_NAME    = "user_email_idx"
	USERNAME_CONSTRAINT_NAME = "user_username_idx"
)

const userColumns = `id::text, username, email, password_hash, password_salt,
	reset_token, reset_token_expires_at, created_at, updated_at`

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgxUserRepository struct {
	db DBTX
}

func NewPgxRepository(db DBTX) *PgxUserRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO users (id, username, email, password_hash, password_salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+userColumns,
		user.NewID().String(),
		string(input.Username),
		string(input.Email),
		string(input.Credentials.Hash),
		encodeSalt(input.Credentials.Salt),
		input.CreatedAt,
	)
	u, err = scanUser(row)
	if err != nil {
		return u, mapUniqueViolation(err)
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.String())
	return r.get(row)
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, string(email))
	return r.get(row)
}

func (r *PgxUserRepository) GetByResetToken(
	ctx context.Context,
	token user.PasswordResetToken,
	now time.Time,
) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE reset_token = $1 AND reset_token_expires_at > $2`,
		string(token),
		now,
	)
	return r.get(row)
}

func (r *PgxUserRepository) get(row pgx.Row) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) Update(ctx context.Context, input user.UpdateUserInput) (u user.User, err error) {
	var hash sql.NullString
	var salt sql.NullString
	if input.Credentials.IsPresent {
		hash = sql.NullString{String: string(input.Credentials.Value.Hash), Valid: true}
		salt = encodeSalt(input.Credentials.Value.Salt)
	}
	row := r.db.QueryRow(
		ctx,
		`UPDATE users SET
			username = COALESCE($2, username),
			email = COALESCE($3, email),
			password_hash = COALESCE($4, password_hash),
			password_salt = CASE WHEN $4::text IS NULL THEN password_salt ELSE $5 END,
			updated_at = $6
		WHERE id = $1
		RETURNING `+userColumns,
		input.ID.String(),
		encodeOptionalString(input.Username),
		encodeOptionalString(input.Email),
		hash,
		salt,
		input.UpdatedAt,
	)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, mapUniqueViolation(err)
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) SetResetToken(ctx context.Context, input user.SetResetTokenInput) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET reset_token = $2, reset_token_expires_at = $3, updated_at = $4 WHERE id = $1`,
		input.ID.String(),
		string(input.Token),
		input.ExpiresAt,
		input.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) RedeemResetToken(
	ctx context.Context,
	input user.RedeemResetTokenInput,
) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE users SET
			password_hash = $2,
			password_salt = $3,
			reset_token = NULL,
			reset_token_expires_at = NULL,
			updated_at = $4
		WHERE reset_token = $1 AND reset_token_expires_at > $4
		RETURNING `+userColumns,
		string(input.Token),
		string(input.Credentials.Hash),
		encodeSalt(input.Credentials.Salt),
		input.Now,
	)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) ClearExpiredResetToken(
	ctx context.Context,
	token user.PasswordResetToken,
	now time.Time,
) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE users SET reset_token = NULL, reset_token_expires_at = NULL
		WHERE reset_token = $1 AND reset_token_expires_at <= $2`,
		string(token),
		now,
	)
	return err
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != PG_UNIQUE_CONSTRAINT_ERR_CODE {
		return err
	}
	switch pgErr.ConstraintName {
	case EMAIL_CONSTRAINT_NAME:
		return user.ErrEmailAlreadyExists
	case USERNAME_CONSTRAINT_NAME:
		return user.ErrUsernameAlreadyExists
	}
	return err
}

func encodeSalt(salt c.Optional[user.PasswordSalt]) sql.NullString {
	return sql.NullString{String: string(salt.Value), Valid: salt.IsPresent}
}

func encodeOptionalString[T ~string](value c.Optional[T]) sql.NullString {
	return sql.NullString{String: string(value.Value), Valid: value.IsPresent}
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id         string
		salt       sql.NullString
		resetToken sql.NullString
		expiresAt  sql.NullTime
	)
	err = row.Scan(
		&id,
		&u.Username,
		&u.Email,
		&u.Credentials.Hash,
		&salt,
		&resetToken,
		&expiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return u, err
	}
	u.ID, err = user.ParseID(id)
	if err != nil {
		return u, err
	}
	u.Credentials.Salt = c.NewOptional(user.PasswordSalt(salt.String), salt.Valid)
	u.ResetToken = c.NewOptional(user.PasswordResetToken(resetToken.String), resetToken.Valid)
	u.ResetTokenExpiresAt = c.NewOptional(expiresAt.Time, expiresAt.Valid)
	return u, nil
}

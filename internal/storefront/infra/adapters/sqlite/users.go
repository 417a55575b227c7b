package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.db}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	const q = `INSERT INTO users (id, username, email, address, created_at) VALUES (?, ?, ?, ?, ?)`

	addr, err := encodeOptionalAddress(u.Address)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, u.ID, u.Username, u.Email, addr, formatTime(u.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: username or email already registered", entity.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("sqlite: create user %q: %w", u.Username, err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	const q = `SELECT id, username, email, address, created_at FROM users WHERE id = ?`

	var (
		u         entity.User
		addr      sql.NullString
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Username, &u.Email, &addr, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", entity.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get user %q: %w", id, err)
	}

	if addr.Valid {
		a, err := decodeAddress(addr.String)
		if err != nil {
			return nil, err
		}
		u.Address = &a
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) SetAddressIfEmpty(ctx context.Context, id string, addr entity.Address) (bool, error) {
	const q = `UPDATE users SET address = ? WHERE id = ? AND address IS NULL`

	encoded, err := encodeAddress(addr)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, q, encoded, id)
	if err != nil {
		return false, fmt.Errorf("sqlite: set address of user %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: set address of user %q: %w", id, err)
	}
	return n == 1, nil
}

func encodeAddress(a entity.Address) (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode address: %w", err)
	}
	return string(b), nil
}

func encodeOptionalAddress(a *entity.Address) (any, error) {
	if a == nil {
		return nil, nil
	}
	s, err := encodeAddress(*a)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodeAddress(s string) (entity.Address, error) {
	var a entity.Address
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return a, fmt.Errorf("sqlite: decode address: %w", err)
	}
	return a, nil
}

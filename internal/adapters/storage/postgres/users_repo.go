package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pediatric-dosage/internal/domain/admin"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const selectUsers = `SELECT userid, usuario, "contraseña", created_at FROM users`

func (r *UsersRepo) List(ctx context.Context) ([]admin.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsers+` ORDER BY usuario`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	out := make([]admin.User, 0)
	for rows.Next() {
		var u admin.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (admin.User, error) {
	return r.getOne(ctx, selectUsers+` WHERE userid = $1`, id)
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (admin.User, error) {
	return r.getOne(ctx, selectUsers+` WHERE usuario = $1`, username)
}

func (r *UsersRepo) getOne(ctx context.Context, q string, arg any) (admin.User, error) {
	var u admin.User
	err := r.db.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return admin.User{}, admin.ErrNotFound
		}
		return admin.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u admin.User) (admin.User, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (usuario, "contraseña", created_at)
		VALUES ($1, $2, $3)
		RETURNING userid
	`, u.Username, u.PasswordHash, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return admin.User{}, admin.ErrConflict
		}
		return admin.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, u admin.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET usuario = $2, "contraseña" = $3
		WHERE userid = $1
	`, u.ID, u.Username, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return admin.ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireOneRow(res)
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE userid = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return admin.ErrNotFound
	}
	return nil
}

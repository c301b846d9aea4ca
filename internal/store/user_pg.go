package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"docclock-api/internal/model"
)

// PGUserRepo is the Postgres user directory.
type PGUserRepo struct {
	pool *pgxpool.Pool
}

func NewPGUserRepo(pool *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{pool: pool}
}

func (r *PGUserRepo) Create(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, full_name, email, role, password_hash, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.FullName, u.Email, u.Role, u.PasswordHash, u.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PGUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.one(ctx,
		`SELECT id, full_name, email, role, password_hash, created_at
		 FROM users WHERE id = $1`, id)
}

func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.one(ctx,
		`SELECT id, full_name, email, role, password_hash, created_at
		 FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *PGUserRepo) GetByIDAndRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	return r.one(ctx,
		`SELECT id, full_name, email, role, password_hash, created_at
		 FROM users WHERE id = $1 AND role = $2`, id, role)
}

func (r *PGUserRepo) one(ctx context.Context, q string, args ...any) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx, q, args...).
		Scan(&u.ID, &u.FullName, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PGUserRepo) List(ctx context.Context, role model.Role) ([]model.User, error) {
	q := `SELECT id, full_name, email, role, password_hash, created_at FROM users`
	args := []any{}
	if role != "" {
		q += ` WHERE role = $1`
		args = append(args, role)
	}
	q += ` ORDER BY lower(full_name)`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PGUserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

var _ UserRepository = (*PGUserRepo)(nil)
var _ UserRepository = (*MemoryUserRepo)(nil)

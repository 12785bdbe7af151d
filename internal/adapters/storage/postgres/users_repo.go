package postgres

import (
	"context"
	"database/sql"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/platform/apperr"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

var _ accounts.Repository = (*UsersRepo)(nil)

func (r *UsersRepo) Create(ctx context.Context, u accounts.User) (accounts.User, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, role, client_id, vet_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`,
		u.Email, u.PasswordHash, string(u.Role), toNullID(u.ClientID), toNullID(u.VetID),
	).Scan(&u.ID)
	if err != nil {
		return accounts.User{}, mapError(err)
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (accounts.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, client_id, vet_id
		FROM users
		WHERE email = $1
	`, email)

	u, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return accounts.User{}, apperr.NotFoundMsg("user with email " + email + " not found")
		}
		return accounts.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (accounts.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, client_id, vet_id
		FROM users
		WHERE id = $1
	`, id)

	u, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return accounts.User{}, apperr.NotFound("user", id)
		}
		return accounts.User{}, err
	}
	return u, nil
}

func scanUser(scan func(dest ...any) error) (accounts.User, error) {
	var u accounts.User
	var role string
	var clientID, vetID sql.NullInt64
	if err := scan(&u.ID, &u.Email, &u.PasswordHash, &role, &clientID, &vetID); err != nil {
		return accounts.User{}, err
	}
	u.Role = access.Role(role)
	u.ClientID = fromNullID(clientID)
	u.VetID = fromNullID(vetID)
	return u, nil
}

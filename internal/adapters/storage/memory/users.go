package memory

import (
	"context"

	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/platform/apperr"
)

type UsersRepo struct {
	s *Store
}

var _ accounts.Repository = (*UsersRepo)(nil)

func (r *UsersRepo) Create(ctx context.Context, u accounts.User) (accounts.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return accounts.User{}, apperr.Conflict("an account with that email already exists")
		}
	}
	u.ID = r.s.nextID()
	r.s.users[u.ID] = u
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (accounts.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return accounts.User{}, apperr.NotFoundMsg("user with email " + email + " not found")
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (accounts.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return accounts.User{}, apperr.NotFound("user", id)
	}
	return u, nil
}

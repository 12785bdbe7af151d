package memory

import (
	"context"
	"sort"

	"vet-clinic-backend/internal/domain/vets"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

type VetsRepo struct {
	s *Store
}

var _ vets.Repository = (*VetsRepo)(nil)

func (r *VetsRepo) Create(ctx context.Context, v vets.Vet) (vets.Vet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.vets {
		if existing.LicenseNumber == v.LicenseNumber {
			return vets.Vet{}, apperr.Conflict("a vet with that license number already exists")
		}
	}
	v.ID = r.s.nextID()
	r.s.vets[v.ID] = v
	return v, nil
}

func (r *VetsRepo) Update(ctx context.Context, v vets.Vet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vets[v.ID]; !ok {
		return apperr.NotFound("vet", v.ID)
	}
	for _, existing := range r.s.vets {
		if existing.ID != v.ID && existing.LicenseNumber == v.LicenseNumber {
			return apperr.Conflict("a vet with that license number already exists")
		}
	}
	r.s.vets[v.ID] = v
	return nil
}

func (r *VetsRepo) GetByID(ctx context.Context, id int64) (vets.Vet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.vets[id]
	if !ok {
		return vets.Vet{}, apperr.NotFound("vet", id)
	}
	return v, nil
}

func (r *VetsRepo) List(ctx context.Context, q listing.Query) (listing.Page[vets.Vet], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q = q.Normalize()
	out := make([]vets.Vet, 0, len(r.s.vets))
	for _, v := range r.s.vets {
		if q.Search != "" && !containsFold(v.Surname, q.Search) {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case "surname":
			if a.Surname != b.Surname {
				return a.Surname < b.Surname
			}
		case "specialty":
			if a.Specialty != b.Specialty {
				return a.Specialty < b.Specialty
			}
		}
		return a.ID < b.ID
	})
	total := len(out)
	return listing.NewPage(paginate(out, q.Offset(), q.Size), total, q.Page, q.Size), nil
}

func (r *VetsRepo) ListSpecialties(ctx context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, v := range r.s.vets {
		if v.Specialty == "" || seen[v.Specialty] {
			continue
		}
		seen[v.Specialty] = true
		out = append(out, v.Specialty)
	}
	sort.Strings(out)
	return out, nil
}

// Delete desvincula las citas asignadas y borra la ficha bajo el mismo
// lock, el equivalente a la transacción del adaptador Postgres.
func (r *VetsRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vets[id]; !ok {
		return apperr.NotFound("vet", id)
	}
	for _, u := range r.s.users {
		if u.VetID != nil && *u.VetID == id {
			return apperr.Conflict("vet is linked to a user account")
		}
	}
	for apptID, a := range r.s.appointments {
		if a.VetID != nil && *a.VetID == id {
			a.VetID = nil
			r.s.appointments[apptID] = a
		}
	}
	delete(r.s.vets, id)
	return nil
}

func (r *VetsRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.vets), nil
}

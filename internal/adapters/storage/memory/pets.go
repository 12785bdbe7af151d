package memory

import (
	"context"
	"sort"

	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

type PetsRepo struct {
	s *Store
}

var _ pets.Repository = (*PetsRepo)(nil)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[p.ClientID]; !ok {
		return pets.Pet{}, apperr.NotFound("client", p.ClientID)
	}
	p.ID = r.s.nextID()
	r.s.pets[p.ID] = p
	return p, nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[p.ID]; !ok {
		return apperr.NotFound("pet", p.ID)
	}
	if _, ok := r.s.clients[p.ClientID]; !ok {
		return apperr.NotFound("client", p.ClientID)
	}
	r.s.pets[p.ID] = p
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, apperr.NotFound("pet", id)
	}
	return p, nil
}

func (r *PetsRepo) List(ctx context.Context, q listing.Query) (listing.Page[pets.Pet], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q = q.Normalize()
	out := make([]pets.Pet, 0, len(r.s.pets))
	for _, p := range r.s.pets {
		if q.Search != "" && !containsFold(p.Name, q.Search) &&
			!containsFold(p.Species, q.Search) && !containsFold(p.Breed, q.Search) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case "name":
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case "species":
			if a.Species != b.Species {
				return a.Species < b.Species
			}
		}
		return a.ID < b.ID
	})
	total := len(out)
	return listing.NewPage(paginate(out, q.Offset(), q.Size), total, q.Page, q.Size), nil
}

func (r *PetsRepo) ListByClient(ctx context.Context, clientID int64) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []pets.Pet{}
	for _, p := range r.s.pets {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[id]; !ok {
		return apperr.NotFound("pet", id)
	}
	for apptID, a := range r.s.appointments {
		if a.PetID != id {
			continue
		}
		for trID, t := range r.s.treatments {
			if t.AppointmentID == apptID {
				delete(r.s.treatments, trID)
			}
		}
		delete(r.s.appointments, apptID)
	}
	delete(r.s.pets, id)
	return nil
}

func (r *PetsRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.pets), nil
}

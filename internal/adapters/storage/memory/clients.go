package memory

import (
	"context"
	"sort"

	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

type ClientsRepo struct {
	s *Store
}

var _ clients.Repository = (*ClientsRepo)(nil)

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) (clients.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.clients {
		if existing.DNI == c.DNI {
			return clients.Client{}, apperr.Conflict("a client with that dni already exists")
		}
	}
	c.ID = r.s.nextID()
	r.s.clients[c.ID] = c
	return c, nil
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[c.ID]; !ok {
		return apperr.NotFound("client", c.ID)
	}
	for _, existing := range r.s.clients {
		if existing.ID != c.ID && existing.DNI == c.DNI {
			return apperr.Conflict("a client with that dni already exists")
		}
	}
	r.s.clients[c.ID] = c
	return nil
}

func (r *ClientsRepo) GetByID(ctx context.Context, id int64) (clients.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.clients[id]
	if !ok {
		return clients.Client{}, apperr.NotFound("client", id)
	}
	return c, nil
}

func (r *ClientsRepo) GetByDNI(ctx context.Context, dni string) (clients.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.clients {
		if c.DNI == dni {
			return c, nil
		}
	}
	return clients.Client{}, apperr.NotFoundMsg("client with dni " + dni + " not found")
}

func (r *ClientsRepo) List(ctx context.Context, q listing.Query) (listing.Page[clients.Client], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q = q.Normalize()
	out := make([]clients.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		if q.Search != "" && !containsFold(c.Surname, q.Search) && !containsFold(c.DNI, q.Search) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case "name":
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case "surname":
			if a.Surname != b.Surname {
				return a.Surname < b.Surname
			}
		case "dni":
			if a.DNI != b.DNI {
				return a.DNI < b.DNI
			}
		}
		return a.ID < b.ID
	})
	total := len(out)
	return listing.NewPage(paginate(out, q.Offset(), q.Size), total, q.Page, q.Size), nil
}

// Delete elimina la ficha y toda su descendencia bajo el mismo lock:
// mascotas, citas de esas mascotas y tratamientos de esas citas.
func (r *ClientsRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[id]; !ok {
		return apperr.NotFound("client", id)
	}
	for _, u := range r.s.users {
		if u.ClientID != nil && *u.ClientID == id {
			return apperr.Conflict("client is linked to a user account")
		}
	}

	for petID, p := range r.s.pets {
		if p.ClientID != id {
			continue
		}
		for apptID, a := range r.s.appointments {
			if a.PetID != petID {
				continue
			}
			for trID, t := range r.s.treatments {
				if t.AppointmentID == apptID {
					delete(r.s.treatments, trID)
				}
			}
			delete(r.s.appointments, apptID)
		}
		delete(r.s.pets, petID)
	}
	delete(r.s.clients, id)
	return nil
}

func (r *ClientsRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.clients), nil
}

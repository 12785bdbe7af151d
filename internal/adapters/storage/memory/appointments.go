package memory

import (
	"context"
	"sort"
	"time"

	"vet-clinic-backend/internal/domain/appointments"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

type AppointmentsRepo struct {
	s *Store
}

var _ appointments.Repository = (*AppointmentsRepo)(nil)

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) (appointments.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[a.PetID]; !ok {
		return appointments.Appointment{}, apperr.NotFound("pet", a.PetID)
	}
	if a.VetID != nil {
		if _, ok := r.s.vets[*a.VetID]; !ok {
			return appointments.Appointment{}, apperr.NotFound("vet", *a.VetID)
		}
	}
	a.ID = r.s.nextID()
	r.s.appointments[a.ID] = a
	return a, nil
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[a.ID]; !ok {
		return apperr.NotFound("appointment", a.ID)
	}
	if _, ok := r.s.pets[a.PetID]; !ok {
		return apperr.NotFound("pet", a.PetID)
	}
	if a.VetID != nil {
		if _, ok := r.s.vets[*a.VetID]; !ok {
			return apperr.NotFound("vet", *a.VetID)
		}
	}
	r.s.appointments[a.ID] = a
	return nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id int64) (appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return appointments.Appointment{}, apperr.NotFound("appointment", id)
	}
	return a, nil
}

func (r *AppointmentsRepo) List(ctx context.Context, q listing.Query) (listing.Page[appointments.Appointment], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q = q.Normalize()
	out := make([]appointments.Appointment, 0, len(r.s.appointments))
	for _, a := range r.s.appointments {
		if q.Search != "" && !containsFold(a.Reason, q.Search) &&
			!containsFold(a.Diagnosis, q.Search) && !containsFold(a.Status, q.Search) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case "date_time":
			if !a.DateTime.Equal(b.DateTime) {
				return a.DateTime.Before(b.DateTime)
			}
		case "status":
			if a.Status != b.Status {
				return a.Status < b.Status
			}
		}
		return a.ID < b.ID
	})
	total := len(out)
	return listing.NewPage(paginate(out, q.Offset(), q.Size), total, q.Page, q.Size), nil
}

func (r *AppointmentsRepo) ListByPet(ctx context.Context, petID int64) ([]appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []appointments.Appointment{}
	for _, a := range r.s.appointments {
		if a.PetID == petID {
			out = append(out, a)
		}
	}
	// Historial: más reciente primero.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.After(out[j].DateTime)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *AppointmentsRepo) ListByVet(ctx context.Context, vetID int64) ([]appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []appointments.Appointment{}
	for _, a := range r.s.appointments {
		if a.VetID != nil && *a.VetID == vetID {
			out = append(out, a)
		}
	}
	// Agenda: próximas primero.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.Before(out[j].DateTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *AppointmentsRepo) ListByClient(ctx context.Context, clientID int64) ([]appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []appointments.Appointment{}
	for _, a := range r.s.appointments {
		p, ok := r.s.pets[a.PetID]
		if ok && p.ClientID == clientID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.After(out[j].DateTime)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *AppointmentsRepo) ListBetween(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []appointments.Appointment{}
	for _, a := range r.s.appointments {
		if a.DateTime.Before(from) || a.DateTime.After(to) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.Before(out[j].DateTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *AppointmentsRepo) ListRecent(ctx context.Context, limit int) ([]appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]appointments.Appointment, 0, len(r.s.appointments))
	for _, a := range r.s.appointments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.After(out[j].DateTime)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[id]; !ok {
		return apperr.NotFound("appointment", id)
	}
	for trID, t := range r.s.treatments {
		if t.AppointmentID == id {
			delete(r.s.treatments, trID)
		}
	}
	delete(r.s.appointments, id)
	return nil
}

func (r *AppointmentsRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.appointments), nil
}

package memory

import (
	"context"
	"sort"

	"vet-clinic-backend/internal/domain/treatments"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

type TreatmentsRepo struct {
	s *Store
}

var _ treatments.Repository = (*TreatmentsRepo)(nil)

func (r *TreatmentsRepo) Create(ctx context.Context, t treatments.Treatment) (treatments.Treatment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[t.AppointmentID]; !ok {
		return treatments.Treatment{}, apperr.NotFound("appointment", t.AppointmentID)
	}
	t.ID = r.s.nextID()
	r.s.treatments[t.ID] = t
	return t, nil
}

func (r *TreatmentsRepo) Update(ctx context.Context, t treatments.Treatment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.treatments[t.ID]; !ok {
		return apperr.NotFound("treatment", t.ID)
	}
	if _, ok := r.s.appointments[t.AppointmentID]; !ok {
		return apperr.NotFound("appointment", t.AppointmentID)
	}
	r.s.treatments[t.ID] = t
	return nil
}

func (r *TreatmentsRepo) GetByID(ctx context.Context, id int64) (treatments.Treatment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.treatments[id]
	if !ok {
		return treatments.Treatment{}, apperr.NotFound("treatment", id)
	}
	return t, nil
}

func (r *TreatmentsRepo) List(ctx context.Context, q listing.Query) (listing.Page[treatments.Treatment], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q = q.Normalize()
	out := make([]treatments.Treatment, 0, len(r.s.treatments))
	for _, t := range r.s.treatments {
		if q.Search != "" && !containsFold(t.Description, q.Search) && !containsFold(t.Medication, q.Search) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case "price":
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case "description":
			if a.Description != b.Description {
				return a.Description < b.Description
			}
		}
		return a.ID < b.ID
	})
	total := len(out)
	return listing.NewPage(paginate(out, q.Offset(), q.Size), total, q.Page, q.Size), nil
}

func (r *TreatmentsRepo) ListByAppointment(ctx context.Context, appointmentID int64) ([]treatments.Treatment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []treatments.Treatment{}
	for _, t := range r.s.treatments {
		if t.AppointmentID == appointmentID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TreatmentsRepo) ListByClient(ctx context.Context, clientID int64) ([]treatments.Treatment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []treatments.Treatment{}
	for _, t := range r.s.treatments {
		a, ok := r.s.appointments[t.AppointmentID]
		if !ok {
			continue
		}
		p, ok := r.s.pets[a.PetID]
		if ok && p.ClientID == clientID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TreatmentsRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.treatments[id]; !ok {
		return apperr.NotFound("treatment", id)
	}
	delete(r.s.treatments, id)
	return nil
}

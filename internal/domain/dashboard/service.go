package dashboard

import (
	"context"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/domain/appointments"
)

// Counter abstrae el conteo de cada repositorio de entidad.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// RecentLister alimenta el widget de actividad reciente.
type RecentLister interface {
	ListRecent(ctx context.Context, limit int) ([]appointments.Appointment, error)
}

type Stats struct {
	TotalClients      int
	TotalPets         int
	TotalVets         int
	TotalAppointments int

	RecentAppointments []appointments.Appointment
}

type Service struct {
	clients      Counter
	pets         Counter
	vets         Counter
	appointments Counter
	recent       RecentLister
}

func NewService(clients, pets, vets, appts Counter, recent RecentLister) *Service {
	return &Service{
		clients:      clients,
		pets:         pets,
		vets:         vets,
		appointments: appts,
		recent:       recent,
	}
}

// Overview consolida los KPIs de la clínica y las 5 últimas citas.
func (s *Service) Overview(ctx context.Context, p access.Principal) (Stats, error) {
	if err := access.RequireStaff(p); err != nil {
		return Stats{}, err
	}

	var (
		st  Stats
		err error
	)
	if st.TotalClients, err = s.clients.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.TotalPets, err = s.pets.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.TotalVets, err = s.vets.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.TotalAppointments, err = s.appointments.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.RecentAppointments, err = s.recent.ListRecent(ctx, 5); err != nil {
		return Stats{}, err
	}
	return st, nil
}

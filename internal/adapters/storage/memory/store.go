package memory

import (
	"strings"
	"sync"

	"vet-clinic-backend/internal/domain/accounts"
	"vet-clinic-backend/internal/domain/appointments"
	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/domain/treatments"
	"vet-clinic-backend/internal/domain/vets"
)

// Store es el almacén in-memory completo (dev y tests).
// Todas las tablas comparten un mutex y una secuencia de ids: así los
// borrados en cascada y el desvínculo de citas al dar de baja un
// veterinario son atómicos, igual que la transacción en Postgres.
type Store struct {
	mu  sync.RWMutex
	seq int64

	clients      map[int64]clients.Client
	pets         map[int64]pets.Pet
	vets         map[int64]vets.Vet
	appointments map[int64]appointments.Appointment
	treatments   map[int64]treatments.Treatment
	users        map[int64]accounts.User
}

func NewStore() *Store {
	return &Store{
		clients:      make(map[int64]clients.Client),
		pets:         make(map[int64]pets.Pet),
		vets:         make(map[int64]vets.Vet),
		appointments: make(map[int64]appointments.Appointment),
		treatments:   make(map[int64]treatments.Treatment),
		users:        make(map[int64]accounts.User),
	}
}

// nextID: el caller debe tener el lock.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Clients() *ClientsRepo           { return &ClientsRepo{s: s} }
func (s *Store) Pets() *PetsRepo                 { return &PetsRepo{s: s} }
func (s *Store) Vets() *VetsRepo                 { return &VetsRepo{s: s} }
func (s *Store) Appointments() *AppointmentsRepo { return &AppointmentsRepo{s: s} }
func (s *Store) Treatments() *TreatmentsRepo     { return &TreatmentsRepo{s: s} }
func (s *Store) Users() *UsersRepo               { return &UsersRepo{s: s} }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// paginate corta la ventana [offset, offset+size) de un slice ya ordenado.
func paginate[T any](items []T, offset, size int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + size
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

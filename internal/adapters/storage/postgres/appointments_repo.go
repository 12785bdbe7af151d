package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vet-clinic-backend/internal/domain/appointments"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

var _ appointments.Repository = (*AppointmentsRepo)(nil)

const appointmentCols = `id, pet_id, vet_id, date_time, reason, diagnosis, status`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) (appointments.Appointment, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO appointments (pet_id, vet_id, date_time, reason, diagnosis, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`,
		a.PetID, toNullID(a.VetID), a.DateTime, a.Reason, a.Diagnosis, a.Status,
	).Scan(&a.ID)
	if err != nil {
		return appointments.Appointment{}, mapError(err)
	}
	return a, nil
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET pet_id = $2, vet_id = $3, date_time = $4, reason = $5, diagnosis = $6, status = $7
		WHERE id = $1
	`,
		a.ID, a.PetID, toNullID(a.VetID), a.DateTime, a.Reason, a.Diagnosis, a.Status,
	)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("appointment", a.ID)
	}
	return nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id int64) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentCols+`
		FROM appointments
		WHERE id = $1
	`, id)

	a, err := scanAppointment(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, apperr.NotFound("appointment", id)
		}
		return appointments.Appointment{}, err
	}
	return a, nil
}

var appointmentSortCols = map[string]string{
	"id": "id", "date_time": "date_time", "status": "status",
}

func (r *AppointmentsRepo) List(ctx context.Context, q listing.Query) (listing.Page[appointments.Appointment], error) {
	q = q.Normalize()
	col, ok := appointmentSortCols[q.Sort]
	if !ok {
		col = "id"
	}

	pattern := "%" + q.Search + "%"

	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*) FROM appointments
		WHERE $1 = '' OR reason ILIKE $2 OR diagnosis ILIKE $2 OR status ILIKE $2
	`, q.Search, pattern).Scan(&total)
	if err != nil {
		return listing.Page[appointments.Appointment]{}, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT `+appointmentCols+`
		FROM appointments
		WHERE $1 = '' OR reason ILIKE $2 OR diagnosis ILIKE $2 OR status ILIKE $2
		ORDER BY %s, id
		LIMIT $3 OFFSET $4
	`, col), q.Search, pattern, q.Size, q.Offset())
	if err != nil {
		return listing.Page[appointments.Appointment]{}, err
	}
	defer rows.Close()

	out, err := collectAppointments(rows)
	if err != nil {
		return listing.Page[appointments.Appointment]{}, err
	}
	return listing.NewPage(out, total, q.Page, q.Size), nil
}

func (r *AppointmentsRepo) ListByPet(ctx context.Context, petID int64) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentCols+`
		FROM appointments
		WHERE pet_id = $1
		ORDER BY date_time DESC, id DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *AppointmentsRepo) ListByVet(ctx context.Context, vetID int64) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentCols+`
		FROM appointments
		WHERE vet_id = $1
		ORDER BY date_time ASC, id ASC
	`, vetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *AppointmentsRepo) ListByClient(ctx context.Context, clientID int64) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.pet_id, a.vet_id, a.date_time, a.reason, a.diagnosis, a.status
		FROM appointments a
		JOIN pets p ON p.id = a.pet_id
		WHERE p.client_id = $1
		ORDER BY a.date_time DESC, a.id DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *AppointmentsRepo) ListBetween(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentCols+`
		FROM appointments
		WHERE date_time >= $1 AND date_time <= $2
		ORDER BY date_time ASC, id ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *AppointmentsRepo) ListRecent(ctx context.Context, limit int) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentCols+`
		FROM appointments
		ORDER BY date_time DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("appointment", id)
	}
	return nil
}

func (r *AppointmentsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM appointments`).Scan(&n)
	return n, err
}

func scanAppointment(scan func(dest ...any) error) (appointments.Appointment, error) {
	var a appointments.Appointment
	var vetID sql.NullInt64
	if err := scan(&a.ID, &a.PetID, &vetID, &a.DateTime, &a.Reason, &a.Diagnosis, &a.Status); err != nil {
		return appointments.Appointment{}, err
	}
	a.VetID = fromNullID(vetID)
	return a, nil
}

func collectAppointments(rows *sql.Rows) ([]appointments.Appointment, error) {
	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

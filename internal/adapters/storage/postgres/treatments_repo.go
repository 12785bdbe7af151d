package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vet-clinic-backend/internal/domain/treatments"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

type TreatmentsRepo struct {
	db *sql.DB
}

func NewTreatmentsRepo(db *sql.DB) *TreatmentsRepo {
	return &TreatmentsRepo{db: db}
}

var _ treatments.Repository = (*TreatmentsRepo)(nil)

func (r *TreatmentsRepo) Create(ctx context.Context, t treatments.Treatment) (treatments.Treatment, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO treatments (appointment_id, description, medication, price, observations)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`,
		t.AppointmentID, t.Description, t.Medication, t.Price, t.Observations,
	).Scan(&t.ID)
	if err != nil {
		return treatments.Treatment{}, mapError(err)
	}
	return t, nil
}

func (r *TreatmentsRepo) Update(ctx context.Context, t treatments.Treatment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE treatments
		SET appointment_id = $2, description = $3, medication = $4, price = $5, observations = $6
		WHERE id = $1
	`,
		t.ID, t.AppointmentID, t.Description, t.Medication, t.Price, t.Observations,
	)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("treatment", t.ID)
	}
	return nil
}

func (r *TreatmentsRepo) GetByID(ctx context.Context, id int64) (treatments.Treatment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, appointment_id, description, medication, price, observations
		FROM treatments
		WHERE id = $1
	`, id)

	var t treatments.Treatment
	if err := row.Scan(&t.ID, &t.AppointmentID, &t.Description, &t.Medication, &t.Price, &t.Observations); err != nil {
		if err == sql.ErrNoRows {
			return treatments.Treatment{}, apperr.NotFound("treatment", id)
		}
		return treatments.Treatment{}, err
	}
	return t, nil
}

var treatmentSortCols = map[string]string{
	"id": "id", "price": "price", "description": "description",
}

func (r *TreatmentsRepo) List(ctx context.Context, q listing.Query) (listing.Page[treatments.Treatment], error) {
	q = q.Normalize()
	col, ok := treatmentSortCols[q.Sort]
	if !ok {
		col = "id"
	}

	pattern := "%" + q.Search + "%"

	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*) FROM treatments
		WHERE $1 = '' OR description ILIKE $2 OR medication ILIKE $2
	`, q.Search, pattern).Scan(&total)
	if err != nil {
		return listing.Page[treatments.Treatment]{}, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, appointment_id, description, medication, price, observations
		FROM treatments
		WHERE $1 = '' OR description ILIKE $2 OR medication ILIKE $2
		ORDER BY %s, id
		LIMIT $3 OFFSET $4
	`, col), q.Search, pattern, q.Size, q.Offset())
	if err != nil {
		return listing.Page[treatments.Treatment]{}, err
	}
	defer rows.Close()

	out, err := collectTreatments(rows)
	if err != nil {
		return listing.Page[treatments.Treatment]{}, err
	}
	return listing.NewPage(out, total, q.Page, q.Size), nil
}

func (r *TreatmentsRepo) ListByAppointment(ctx context.Context, appointmentID int64) ([]treatments.Treatment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, appointment_id, description, medication, price, observations
		FROM treatments
		WHERE appointment_id = $1
		ORDER BY id
	`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTreatments(rows)
}

func (r *TreatmentsRepo) ListByClient(ctx context.Context, clientID int64) ([]treatments.Treatment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.appointment_id, t.description, t.medication, t.price, t.observations
		FROM treatments t
		JOIN appointments a ON a.id = t.appointment_id
		JOIN pets p ON p.id = a.pet_id
		WHERE p.client_id = $1
		ORDER BY t.id
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTreatments(rows)
}

func (r *TreatmentsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM treatments WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("treatment", id)
	}
	return nil
}

func collectTreatments(rows *sql.Rows) ([]treatments.Treatment, error) {
	out := make([]treatments.Treatment, 0)
	for rows.Next() {
		var t treatments.Treatment
		if err := rows.Scan(&t.ID, &t.AppointmentID, &t.Description, &t.Medication, &t.Price, &t.Observations); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

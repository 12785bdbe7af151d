package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vet-clinic-backend/internal/domain/vets"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

type VetsRepo struct {
	db *sql.DB
}

func NewVetsRepo(db *sql.DB) *VetsRepo {
	return &VetsRepo{db: db}
}

var _ vets.Repository = (*VetsRepo)(nil)

func (r *VetsRepo) Create(ctx context.Context, v vets.Vet) (vets.Vet, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO vets (name, surname, license_number, specialty, email)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`,
		v.Name, v.Surname, v.LicenseNumber, v.Specialty, v.Email,
	).Scan(&v.ID)
	if err != nil {
		return vets.Vet{}, mapError(err)
	}
	return v, nil
}

func (r *VetsRepo) Update(ctx context.Context, v vets.Vet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vets
		SET name = $2, surname = $3, license_number = $4, specialty = $5, email = $6
		WHERE id = $1
	`,
		v.ID, v.Name, v.Surname, v.LicenseNumber, v.Specialty, v.Email,
	)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("vet", v.ID)
	}
	return nil
}

func (r *VetsRepo) GetByID(ctx context.Context, id int64) (vets.Vet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, surname, license_number, specialty, email
		FROM vets
		WHERE id = $1
	`, id)

	var v vets.Vet
	if err := row.Scan(&v.ID, &v.Name, &v.Surname, &v.LicenseNumber, &v.Specialty, &v.Email); err != nil {
		if err == sql.ErrNoRows {
			return vets.Vet{}, apperr.NotFound("vet", id)
		}
		return vets.Vet{}, err
	}
	return v, nil
}

var vetSortCols = map[string]string{
	"id": "id", "surname": "surname", "specialty": "specialty",
}

func (r *VetsRepo) List(ctx context.Context, q listing.Query) (listing.Page[vets.Vet], error) {
	q = q.Normalize()
	col, ok := vetSortCols[q.Sort]
	if !ok {
		col = "id"
	}

	pattern := "%" + q.Search + "%"

	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*) FROM vets
		WHERE $1 = '' OR surname ILIKE $2
	`, q.Search, pattern).Scan(&total)
	if err != nil {
		return listing.Page[vets.Vet]{}, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, name, surname, license_number, specialty, email
		FROM vets
		WHERE $1 = '' OR surname ILIKE $2
		ORDER BY %s, id
		LIMIT $3 OFFSET $4
	`, col), q.Search, pattern, q.Size, q.Offset())
	if err != nil {
		return listing.Page[vets.Vet]{}, err
	}
	defer rows.Close()

	out := make([]vets.Vet, 0)
	for rows.Next() {
		var v vets.Vet
		if err := rows.Scan(&v.ID, &v.Name, &v.Surname, &v.LicenseNumber, &v.Specialty, &v.Email); err != nil {
			return listing.Page[vets.Vet]{}, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return listing.Page[vets.Vet]{}, err
	}
	return listing.NewPage(out, total, q.Page, q.Size), nil
}

func (r *VetsRepo) ListSpecialties(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT specialty
		FROM vets
		WHERE specialty <> ''
		ORDER BY specialty
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete desvincula las citas y borra la fila en una sola transacción:
// las citas históricas sobreviven a la baja del profesional.
func (r *VetsRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE appointments SET vet_id = NULL WHERE vet_id = $1
	`, id); err != nil {
		return mapError(err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM vets WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("vet", id)
	}

	return tx.Commit()
}

func (r *VetsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM vets`).Scan(&n)
	return n, err
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var _ pets.Repository = (*PetsRepo)(nil)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pets (client_id, name, species, breed, birth_date, weight, photo_file)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`,
		p.ClientID, p.Name, p.Species, p.Breed, toNullDate(p.BirthDate), p.Weight, p.PhotoFile,
	).Scan(&p.ID)
	if err != nil {
		return pets.Pet{}, mapError(err)
	}
	return p, nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET client_id = $2, name = $3, species = $4, breed = $5,
		    birth_date = $6, weight = $7, photo_file = $8
		WHERE id = $1
	`,
		p.ID, p.ClientID, p.Name, p.Species, p.Breed, toNullDate(p.BirthDate), p.Weight, p.PhotoFile,
	)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("pet", p.ID)
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, client_id, name, species, breed, birth_date, weight, photo_file
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, apperr.NotFound("pet", id)
		}
		return pets.Pet{}, err
	}
	return p, nil
}

var petSortCols = map[string]string{
	"id": "id", "name": "name", "species": "species",
}

func (r *PetsRepo) List(ctx context.Context, q listing.Query) (listing.Page[pets.Pet], error) {
	q = q.Normalize()
	col, ok := petSortCols[q.Sort]
	if !ok {
		col = "id"
	}

	pattern := "%" + q.Search + "%"

	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*) FROM pets
		WHERE $1 = '' OR name ILIKE $2 OR species ILIKE $2 OR breed ILIKE $2
	`, q.Search, pattern).Scan(&total)
	if err != nil {
		return listing.Page[pets.Pet]{}, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, client_id, name, species, breed, birth_date, weight, photo_file
		FROM pets
		WHERE $1 = '' OR name ILIKE $2 OR species ILIKE $2 OR breed ILIKE $2
		ORDER BY %s, id
		LIMIT $3 OFFSET $4
	`, col), q.Search, pattern, q.Size, q.Offset())
	if err != nil {
		return listing.Page[pets.Pet]{}, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows.Scan)
		if err != nil {
			return listing.Page[pets.Pet]{}, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return listing.Page[pets.Pet]{}, err
	}
	return listing.NewPage(out, total, q.Page, q.Size), nil
}

func (r *PetsRepo) ListByClient(ctx context.Context, clientID int64) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_id, name, species, breed, birth_date, weight, photo_file
		FROM pets
		WHERE client_id = $1
		ORDER BY id
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("pet", id)
	}
	return nil
}

func (r *PetsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM pets`).Scan(&n)
	return n, err
}

func scanPet(scan func(dest ...any) error) (pets.Pet, error) {
	var p pets.Pet
	var bd sql.NullTime
	if err := scan(&p.ID, &p.ClientID, &p.Name, &p.Species, &p.Breed, &bd, &p.Weight, &p.PhotoFile); err != nil {
		return pets.Pet{}, err
	}
	if bd.Valid {
		t := bd.Time
		p.BirthDate = &t
	}
	return p, nil
}

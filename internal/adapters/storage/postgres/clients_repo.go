package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vet-clinic-backend/internal/domain/clients"
	"vet-clinic-backend/internal/platform/apperr"
	"vet-clinic-backend/internal/platform/listing"
)

type ClientsRepo struct {
	db *sql.DB
}

func NewClientsRepo(db *sql.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

var _ clients.Repository = (*ClientsRepo)(nil)

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) (clients.Client, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO clients (name, surname, dni, phone, address, email)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`,
		c.Name, c.Surname, c.DNI, c.Phone, c.Address, c.Email,
	).Scan(&c.ID)
	if err != nil {
		return clients.Client{}, mapError(err)
	}
	return c, nil
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients
		SET name = $2, surname = $3, dni = $4, phone = $5, address = $6, email = $7
		WHERE id = $1
	`,
		c.ID, c.Name, c.Surname, c.DNI, c.Phone, c.Address, c.Email,
	)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("client", c.ID)
	}
	return nil
}

func (r *ClientsRepo) GetByID(ctx context.Context, id int64) (clients.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, surname, dni, phone, address, email
		FROM clients
		WHERE id = $1
	`, id)

	var c clients.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Surname, &c.DNI, &c.Phone, &c.Address, &c.Email); err != nil {
		if err == sql.ErrNoRows {
			return clients.Client{}, apperr.NotFound("client", id)
		}
		return clients.Client{}, err
	}
	return c, nil
}

func (r *ClientsRepo) GetByDNI(ctx context.Context, dni string) (clients.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, surname, dni, phone, address, email
		FROM clients
		WHERE dni = $1
	`, dni)

	var c clients.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Surname, &c.DNI, &c.Phone, &c.Address, &c.Email); err != nil {
		if err == sql.ErrNoRows {
			return clients.Client{}, apperr.NotFoundMsg("client with dni " + dni + " not found")
		}
		return clients.Client{}, err
	}
	return c, nil
}

// columnas admitidas en ORDER BY; cualquier otro valor cae en id.
var clientSortCols = map[string]string{
	"id": "id", "name": "name", "surname": "surname", "dni": "dni",
}

func (r *ClientsRepo) List(ctx context.Context, q listing.Query) (listing.Page[clients.Client], error) {
	q = q.Normalize()
	col, ok := clientSortCols[q.Sort]
	if !ok {
		col = "id"
	}

	pattern := "%" + q.Search + "%"

	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*) FROM clients
		WHERE $1 = '' OR surname ILIKE $2 OR dni ILIKE $2
	`, q.Search, pattern).Scan(&total)
	if err != nil {
		return listing.Page[clients.Client]{}, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, name, surname, dni, phone, address, email
		FROM clients
		WHERE $1 = '' OR surname ILIKE $2 OR dni ILIKE $2
		ORDER BY %s, id
		LIMIT $3 OFFSET $4
	`, col), q.Search, pattern, q.Size, q.Offset())
	if err != nil {
		return listing.Page[clients.Client]{}, err
	}
	defer rows.Close()

	out := make([]clients.Client, 0)
	for rows.Next() {
		var c clients.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Surname, &c.DNI, &c.Phone, &c.Address, &c.Email); err != nil {
			return listing.Page[clients.Client]{}, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return listing.Page[clients.Client]{}, err
	}
	return listing.NewPage(out, total, q.Page, q.Size), nil
}

// Delete confía en las cascadas del esquema para mascotas, citas y
// tratamientos. El RESTRICT de users hace saltar Conflict si la ficha
// sigue vinculada a una cuenta.
func (r *ClientsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("client", id)
	}
	return nil
}

func (r *ClientsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM clients`).Scan(&n)
	return n, err
}

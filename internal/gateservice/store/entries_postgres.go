package store

import (
	"context"
	"errors"
	"fmt"

	"tanker-queue/internal/gateservice/core"
	"tanker-queue/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `id, queue_number, order_number, company_name, customer_name, order_date,
	truck_number, trailer_number, driver_name, driver_phone_number,
	number_of_drums, amount_in_liters, tank_number, created_at, updated_at`

// PostgresEntryStore implements EntryStore over a pgx pool.
type PostgresEntryStore struct {
	pool *pgxpool.Pool
}

func NewPostgresEntryStore(pool *pgxpool.Pool) *PostgresEntryStore {
	return &PostgresEntryStore{pool: pool}
}

func (s *PostgresEntryStore) Insert(ctx context.Context, entry *models.Entry) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO entries (`+entryColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
    `, entry.ID, entry.QueueNumber, entry.OrderNumber, entry.CompanyName, entry.CustomerName,
		entry.OrderDate, entry.TruckNumber, entry.TrailerNumber, entry.DriverName,
		entry.DriverPhoneNumber, entry.NumberOfDrums, entry.AmountInLiters, entry.TankNumber,
		entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return core.ErrDuplicateQueueNumber
		}
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *PostgresEntryStore) FindByPlate(ctx context.Context, plate string) (*models.Entry, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT `+entryColumns+`
        FROM entries
        WHERE LOWER(truck_number) = LOWER($1)
        ORDER BY created_at DESC
        LIMIT 1
    `, plate)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find entry by plate: %w", err)
	}
	return entry, nil
}

func (s *PostgresEntryStore) Search(ctx context.Context, term string) ([]*models.Entry, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+entryColumns+`
        FROM entries
        WHERE truck_number ILIKE '%' || $1 || '%'
        ORDER BY created_at DESC
        LIMIT 10
    `, term)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (s *PostgresEntryStore) ListAll(ctx context.Context) ([]*models.Entry, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+entryColumns+`
        FROM entries
        ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func scanEntry(row pgx.Row) (*models.Entry, error) {
	var e models.Entry
	err := row.Scan(&e.ID, &e.QueueNumber, &e.OrderNumber, &e.CompanyName, &e.CustomerName,
		&e.OrderDate, &e.TruckNumber, &e.TrailerNumber, &e.DriverName, &e.DriverPhoneNumber,
		&e.NumberOfDrums, &e.AmountInLiters, &e.TankNumber, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEntries(rows pgx.Rows) ([]*models.Entry, error) {
	entries := []*models.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	return entries, nil
}

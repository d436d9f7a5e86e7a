package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tanker-queue/internal/gateservice/core"
	"tanker-queue/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const registrationColumns = `id, vehicle_number, driver_name, driver_phone, trailer_number,
	customer_name, company_name, created_at, updated_at`

// PostgresVehicleRegistry implements VehicleRegistry over a pgx pool. The
// unique index on LOWER(vehicle_number) is the authoritative dedup guard.
type PostgresVehicleRegistry struct {
	pool *pgxpool.Pool
}

func NewPostgresVehicleRegistry(pool *pgxpool.Pool) *PostgresVehicleRegistry {
	return &PostgresVehicleRegistry{pool: pool}
}

func (s *PostgresVehicleRegistry) FindByVehicleNumber(ctx context.Context, plate string) (*models.Registration, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT `+registrationColumns+`
        FROM registry
        WHERE LOWER(vehicle_number) = LOWER($1)
    `, plate)

	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return reg, nil
}

func (s *PostgresVehicleRegistry) Create(ctx context.Context, reg *models.Registration) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO registry (`+registrationColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, reg.ID, reg.VehicleNumber, reg.DriverName, reg.DriverPhone, reg.TrailerNumber,
		reg.CustomerName, reg.CompanyName, reg.CreatedAt, reg.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return core.ErrDuplicateVehicle
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (s *PostgresVehicleRegistry) Search(ctx context.Context, term string) ([]*models.Registration, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+registrationColumns+`
        FROM registry
        WHERE vehicle_number ILIKE '%' || $1 || '%'
           OR driver_name ILIKE '%' || $1 || '%'
           OR driver_phone ILIKE '%' || $1 || '%'
           OR customer_name ILIKE '%' || $1 || '%'
           OR company_name ILIKE '%' || $1 || '%'
        ORDER BY created_at DESC
    `, term)
	if err != nil {
		return nil, fmt.Errorf("search registry: %w", err)
	}
	defer rows.Close()

	return collectRegistrations(rows)
}

func (s *PostgresVehicleRegistry) ListAll(ctx context.Context) ([]*models.Registration, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+registrationColumns+`
        FROM registry
        ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list registry: %w", err)
	}
	defer rows.Close()

	return collectRegistrations(rows)
}

func (s *PostgresVehicleRegistry) Update(ctx context.Context, id string, patch RegistrationPatch) error {
	set := []string{"updated_at = now()"}
	args := []any{}

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("vehicle_number", patch.VehicleNumber)
	add("driver_name", patch.DriverName)
	add("driver_phone", patch.DriverPhone)
	add("trailer_number", patch.TrailerNumber)
	add("customer_name", patch.CustomerName)
	add("company_name", patch.CompanyName)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE registry SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	// A missing id affects zero rows; treated as a no-op success.
	_, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return core.ErrDuplicateVehicle
		}
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

func (s *PostgresVehicleRegistry) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM registry WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (s *PostgresVehicleRegistry) ClearAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM registry`); err != nil {
		return fmt.Errorf("clear registry: %w", err)
	}
	return nil
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var r models.Registration
	err := row.Scan(&r.ID, &r.VehicleNumber, &r.DriverName, &r.DriverPhone, &r.TrailerNumber,
		&r.CustomerName, &r.CompanyName, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectRegistrations(rows pgx.Rows) ([]*models.Registration, error) {
	regs := []*models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read registrations: %w", err)
	}
	return regs, nil
}

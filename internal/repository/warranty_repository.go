package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velodesk/repair-service/internal/domain"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// WarrantyRepository encapsulates warranty persistence. Create allocates the
// protocol number and inserts the row in one transaction, so concurrent
// creates can never observe the same sequence value.
type WarrantyRepository interface {
	Create(ctx context.Context, warranty *domain.Warranty) error
	Update(ctx context.Context, warranty *domain.Warranty) error
	GetByID(ctx context.Context, id string) (*domain.Warranty, error)
	List(ctx context.Context) ([]domain.Warranty, error)
	Delete(ctx context.Context, id string) error
}

type warrantyRepository struct {
	pool *pgxpool.Pool
}

// NewWarrantyRepository instantiates the Postgres-backed repository.
func NewWarrantyRepository(pool *pgxpool.Pool) WarrantyRepository {
	return &warrantyRepository{pool: pool}
}

func (r *warrantyRepository) Create(ctx context.Context, warranty *domain.Warranty) error {
	history, err := json.Marshal(warranty.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	year := warranty.CreatedAt.UTC().Year()
	var seq int
	const bump = `
        INSERT INTO warranty_counters (year, last_seq) VALUES ($1, 1)
        ON CONFLICT (year) DO UPDATE SET last_seq = warranty_counters.last_seq + 1
        RETURNING last_seq`
	if err := tx.QueryRow(ctx, bump, year).Scan(&seq); err != nil {
		return fmt.Errorf("allocate protocol number: %w", err)
	}
	warranty.ProtocolNumber = FormatProtocolNumber(year, seq)

	const insert = `
        INSERT INTO warranties (id, protocol_number, start_date, customer_name, email, agent,
            serial_number, bike_model, size, problem, observation, paint_details,
            components_description, solution, producer, new_serial_number, order_number, value,
            invoice, status, images, history, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)`
	if _, err := tx.Exec(ctx, insert,
		warranty.ID,
		warranty.ProtocolNumber,
		warranty.StartDate,
		warranty.CustomerName,
		warranty.Email,
		warranty.Agent,
		warranty.SerialNumber,
		warranty.BikeModel,
		warranty.Size,
		warranty.Problem,
		warranty.Observation,
		warranty.PaintDetails,
		warranty.ComponentsDescription,
		warranty.Solution,
		warranty.Producer,
		warranty.NewSerialNumber,
		warranty.OrderNumber,
		warranty.Value,
		warranty.Invoice,
		warranty.Status,
		warranty.Images,
		history,
		warranty.CreatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateProtocol, warranty.ProtocolNumber)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *warrantyRepository) Update(ctx context.Context, warranty *domain.Warranty) error {
	history, err := json.Marshal(warranty.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	const query = `
        UPDATE warranties SET start_date=$1, customer_name=$2, email=$3, agent=$4, serial_number=$5,
            bike_model=$6, size=$7, problem=$8, observation=$9, paint_details=$10,
            components_description=$11, solution=$12, producer=$13, new_serial_number=$14,
            order_number=$15, value=$16, invoice=$17, status=$18, images=$19, history=$20
        WHERE id=$21`
	cmd, err := r.pool.Exec(ctx, query,
		warranty.StartDate,
		warranty.CustomerName,
		warranty.Email,
		warranty.Agent,
		warranty.SerialNumber,
		warranty.BikeModel,
		warranty.Size,
		warranty.Problem,
		warranty.Observation,
		warranty.PaintDetails,
		warranty.ComponentsDescription,
		warranty.Solution,
		warranty.Producer,
		warranty.NewSerialNumber,
		warranty.OrderNumber,
		warranty.Value,
		warranty.Invoice,
		warranty.Status,
		warranty.Images,
		history,
		warranty.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const warrantyColumns = `id, protocol_number, start_date, customer_name, email, agent, serial_number,
        bike_model, size, problem, observation, paint_details, components_description, solution,
        producer, new_serial_number, order_number, value, invoice, status, images, history, created_at`

func (r *warrantyRepository) GetByID(ctx context.Context, id string) (*domain.Warranty, error) {
	query := `SELECT ` + warrantyColumns + ` FROM warranties WHERE id=$1`
	warranty, err := scanWarranty(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return warranty, err
}

func (r *warrantyRepository) List(ctx context.Context) ([]domain.Warranty, error) {
	query := `SELECT ` + warrantyColumns + ` FROM warranties ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Warranty{}
	for rows.Next() {
		warranty, err := scanWarranty(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *warranty)
	}
	return result, rows.Err()
}

func (r *warrantyRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM warranties WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanWarranty(row pgx.Row) (*domain.Warranty, error) {
	var warranty domain.Warranty
	var history []byte
	if err := row.Scan(
		&warranty.ID,
		&warranty.ProtocolNumber,
		&warranty.StartDate,
		&warranty.CustomerName,
		&warranty.Email,
		&warranty.Agent,
		&warranty.SerialNumber,
		&warranty.BikeModel,
		&warranty.Size,
		&warranty.Problem,
		&warranty.Observation,
		&warranty.PaintDetails,
		&warranty.ComponentsDescription,
		&warranty.Solution,
		&warranty.Producer,
		&warranty.NewSerialNumber,
		&warranty.OrderNumber,
		&warranty.Value,
		&warranty.Invoice,
		&warranty.Status,
		&warranty.Images,
		&history,
		&warranty.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &warranty.History); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return &warranty, nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velodesk/repair-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Implementations persist
// the entity row and its embedded history atomically: an Update either
// commits the new field values together with the appended history entries or
// commits nothing.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the Postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	history, err := json.Marshal(ticket.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	const query = `
        INSERT INTO tickets (id, client_name, client_email, component, brand, serial_number, problem,
            protocol_number, approval_status, phase, shipping_date, tracking_number, shipping_company,
            completion_date, images, history, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	_, err = r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.ClientName,
		ticket.ClientEmail,
		ticket.Component,
		ticket.Brand,
		ticket.SerialNumber,
		ticket.Problem,
		ticket.ProtocolNumber,
		ticket.ApprovalStatus,
		ticket.Phase,
		ticket.ShippingDate,
		ticket.TrackingNumber,
		ticket.ShippingCompany,
		ticket.CompletionDate,
		ticket.Images,
		history,
		ticket.CreatedAt,
	)
	return err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	history, err := json.Marshal(ticket.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	const query = `
        UPDATE tickets SET client_name=$1, client_email=$2, component=$3, brand=$4, serial_number=$5,
            problem=$6, protocol_number=$7, approval_status=$8, phase=$9, shipping_date=$10,
            tracking_number=$11, shipping_company=$12, completion_date=$13, images=$14, history=$15
        WHERE id=$16`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.ClientName,
		ticket.ClientEmail,
		ticket.Component,
		ticket.Brand,
		ticket.SerialNumber,
		ticket.Problem,
		ticket.ProtocolNumber,
		ticket.ApprovalStatus,
		ticket.Phase,
		ticket.ShippingDate,
		ticket.TrackingNumber,
		ticket.ShippingCompany,
		ticket.CompletionDate,
		ticket.Images,
		history,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const ticketColumns = `id, client_name, client_email, component, brand, serial_number, problem,
        protocol_number, approval_status, phase, shipping_date, tracking_number, shipping_company,
        completion_date, images, history, created_at`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return ticket, err
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var history []byte
	if err := row.Scan(
		&ticket.ID,
		&ticket.ClientName,
		&ticket.ClientEmail,
		&ticket.Component,
		&ticket.Brand,
		&ticket.SerialNumber,
		&ticket.Problem,
		&ticket.ProtocolNumber,
		&ticket.ApprovalStatus,
		&ticket.Phase,
		&ticket.ShippingDate,
		&ticket.TrackingNumber,
		&ticket.ShippingCompany,
		&ticket.CompletionDate,
		&ticket.Images,
		&history,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &ticket.History); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return &ticket, nil
}

// Command importer loads a JSON export of repair tickets into Postgres,
// preserving ids, history and timestamps. The export format matches the
// snake_case dump produced by the legacy system.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/velodesk/repair-service/internal/config"
	"github.com/velodesk/repair-service/internal/domain"
	"github.com/velodesk/repair-service/internal/observability"
	"github.com/velodesk/repair-service/internal/persistence"
	"github.com/velodesk/repair-service/internal/repository"
)

type ticketRecord struct {
	ID              string                `json:"id"`
	ClientName      string                `json:"client_name"`
	ClientEmail     string                `json:"client_email"`
	Component       string                `json:"component"`
	Brand           string                `json:"brand"`
	SerialNumber    *string               `json:"serial_number"`
	Problem         *string               `json:"problem"`
	ProtocolNumber  *string               `json:"protocol_number"`
	ApprovalStatus  *string               `json:"approval_status"`
	Phase           string                `json:"phase"`
	ShippingDate    *string               `json:"shipping_date"`
	TrackingNumber  *string               `json:"tracking_number"`
	ShippingCompany *string               `json:"shipping_company"`
	CompletionDate  *string               `json:"completion_date"`
	Images          []string              `json:"images"`
	History         []domain.HistoryEntry `json:"history"`
	CreatedAt       *string               `json:"created_at"`
}

func main() {
	file := flag.String("file", "tickets.json", "path to the ticket export")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		logger.Fatal("POSTGRES_DSN is required for imports")
	}

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		logger.Fatal("failed to read export", zap.String("file", *file), zap.Error(err))
	}
	var records []ticketRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Fatal("failed to parse export", zap.Error(err))
	}
	logger.Info("importing tickets", zap.Int("count", len(records)))

	repo := repository.NewTicketRepository(pg.PoolHandle())
	imported := 0
	for _, record := range records {
		ticket, err := record.toDomain()
		if err != nil {
			logger.Error("skipping ticket", zap.String("id", record.ID), zap.Error(err))
			continue
		}
		if err := repo.Create(ctx, ticket); err != nil {
			logger.Error("failed to import ticket", zap.String("id", record.ID), zap.Error(err))
			continue
		}
		imported++
	}
	logger.Info("import completed", zap.Int("imported", imported), zap.Int("total", len(records)))
}

func (r ticketRecord) toDomain() (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		ID:              r.ID,
		ClientName:      r.ClientName,
		ClientEmail:     r.ClientEmail,
		Component:       r.Component,
		Brand:           r.Brand,
		SerialNumber:    r.SerialNumber,
		Problem:         r.Problem,
		ProtocolNumber:  r.ProtocolNumber,
		TrackingNumber:  r.TrackingNumber,
		ShippingCompany: r.ShippingCompany,
		Phase:           domain.TicketPhase(r.Phase),
		Images:          r.Images,
		History:         r.History,
		CreatedAt:       time.Now().UTC(),
	}
	if ticket.Images == nil {
		ticket.Images = []string{}
	}
	if ticket.History == nil {
		ticket.History = []domain.HistoryEntry{}
	}
	if r.ApprovalStatus != nil {
		status := domain.ApprovalStatus(*r.ApprovalStatus)
		ticket.ApprovalStatus = &status
	}
	if r.ShippingDate != nil && *r.ShippingDate != "" {
		d, err := domain.ParseDate(*r.ShippingDate)
		if err != nil {
			return nil, err
		}
		ticket.ShippingDate = &d
	}
	if r.CompletionDate != nil && *r.CompletionDate != "" {
		d, err := domain.ParseDate(*r.CompletionDate)
		if err != nil {
			return nil, err
		}
		ticket.CompletionDate = &d
	}
	if r.CreatedAt != nil && *r.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339Nano, *r.CreatedAt)
		if err != nil {
			return nil, err
		}
		ticket.CreatedAt = created.UTC()
	}
	return ticket, nil
}

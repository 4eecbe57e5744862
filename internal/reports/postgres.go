package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// PostgresStore implements domain.ReportStore on PostgreSQL. It works
// over database/sql so the connection can come from the pgx stdlib
// driver in production or a mock in tests. Schema management lives in
// internal/database; this store assumes the reports table exists.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an already-connected database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save appends one report.
func (s *PostgresStore) Save(ctx context.Context, report *domain.AnalysisReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (patient_id, drug, gene, phenotype, risk_label, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		report.PatientID,
		report.Drug,
		report.Risk.Gene,
		string(report.Profile.Phenotype),
		string(report.Risk.RiskLabel),
		string(payload),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// ListByPatient returns the most recent reports for a patient, newest
// first.
func (s *PostgresStore) ListByPatient(ctx context.Context, patientID string, limit int) ([]domain.AnalysisReport, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM reports
		WHERE patient_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		patientID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	return scanPayloads(rows)
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

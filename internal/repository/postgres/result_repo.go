package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"faxfhir/internal/domain"
	"faxfhir/internal/port"
)

type resultRepo struct {
	db *sqlx.DB
}

// NewResultRepo creates a new PostgreSQL-backed ResultRepository.
func NewResultRepo(db *sqlx.DB) port.ResultRepository {
	return &resultRepo{db: db}
}

// resultRow maps the processing_results table. Slices and nested structs are
// stored as JSONB.
type resultRow struct {
	ID             uuid.UUID      `db:"id"`
	Filename       string         `db:"filename"`
	Status         string         `db:"status"`
	Success        bool           `db:"success"`
	FHIRBundle     []byte         `db:"fhir_bundle"`
	Confidence     []byte         `db:"confidence_detail"`
	NeedsReview    bool           `db:"needs_review"`
	ReviewComments []byte         `db:"review_comments"`
	ProcessingMs   int64          `db:"processing_ms"`
	OCRTextLength  int            `db:"ocr_text_length"`
	FHIROutputPath sql.NullString `db:"fhir_output_path"`
	ArchiveURI     sql.NullString `db:"archive_uri"`
	Errors         []byte         `db:"errors"`
	CreatedAt      time.Time      `db:"created_at"`
}

func toRow(result *domain.ProcessingResult) (*resultRow, error) {
	comments, err := json.Marshal(result.ReviewComments)
	if err != nil {
		return nil, fmt.Errorf("marshaling review comments: %w", err)
	}
	errs, err := json.Marshal(result.Errors)
	if err != nil {
		return nil, fmt.Errorf("marshaling errors: %w", err)
	}

	row := &resultRow{
		ID:             result.ID,
		Filename:       result.Filename,
		Status:         string(result.Status),
		Success:        result.Success,
		FHIRBundle:     result.FHIRBundle,
		NeedsReview:    result.NeedsReview,
		ReviewComments: comments,
		ProcessingMs:   result.ProcessingMs,
		OCRTextLength:  result.OCRTextLength,
		Errors:         errs,
		CreatedAt:      result.CreatedAt,
	}
	if result.Confidence != nil {
		detail, err := json.Marshal(result.Confidence)
		if err != nil {
			return nil, fmt.Errorf("marshaling confidence: %w", err)
		}
		row.Confidence = detail
	}
	if result.Files.FHIROutput != "" {
		row.FHIROutputPath = sql.NullString{String: result.Files.FHIROutput, Valid: true}
	}
	if result.Files.ArchiveURI != "" {
		row.ArchiveURI = sql.NullString{String: result.Files.ArchiveURI, Valid: true}
	}
	return row, nil
}

func (row *resultRow) toDomain() (*domain.ProcessingResult, error) {
	result := &domain.ProcessingResult{
		ID:            row.ID,
		Filename:      row.Filename,
		Status:        domain.ProcessingStatus(row.Status),
		Success:       row.Success,
		FHIRBundle:    row.FHIRBundle,
		NeedsReview:   row.NeedsReview,
		ProcessingMs:  row.ProcessingMs,
		OCRTextLength: row.OCRTextLength,
		Files: domain.OutputFiles{
			FHIROutput: row.FHIROutputPath.String,
			ArchiveURI: row.ArchiveURI.String,
		},
		CreatedAt: row.CreatedAt,
	}
	if len(row.Confidence) > 0 {
		var metrics domain.ConfidenceMetrics
		if err := json.Unmarshal(row.Confidence, &metrics); err != nil {
			return nil, fmt.Errorf("unmarshaling confidence: %w", err)
		}
		result.Confidence = &metrics
	}
	if len(row.ReviewComments) > 0 {
		if err := json.Unmarshal(row.ReviewComments, &result.ReviewComments); err != nil {
			return nil, fmt.Errorf("unmarshaling review comments: %w", err)
		}
	}
	if len(row.Errors) > 0 {
		if err := json.Unmarshal(row.Errors, &result.Errors); err != nil {
			return nil, fmt.Errorf("unmarshaling errors: %w", err)
		}
	}
	return result, nil
}

func (r *resultRepo) Create(ctx context.Context, result *domain.ProcessingResult) error {
	row, err := toRow(result)
	if err != nil {
		return fmt.Errorf("resultRepo.Create: %w", err)
	}

	query := `INSERT INTO processing_results (
		id, filename, status, success, fhir_bundle, confidence_detail,
		needs_review, review_comments, processing_ms, ocr_text_length,
		fhir_output_path, archive_uri, errors, created_at
	) VALUES (
		:id, :filename, :status, :success, :fhir_bundle, :confidence_detail,
		:needs_review, :review_comments, :processing_ms, :ocr_text_length,
		:fhir_output_path, :archive_uri, :errors, :created_at
	)`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("resultRepo.Create: %w", err)
	}
	return nil
}

func (r *resultRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingResult, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM processing_results WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resultRepo.GetByID: %w", err)
	}
	return row.toDomain()
}

func (r *resultRepo) List(ctx context.Context, filter port.ResultFilter) ([]domain.ProcessingResult, error) {
	query := "SELECT * FROM processing_results"
	var clauses []string
	var args []interface{}

	if filter.NeedsReview != nil {
		args = append(args, *filter.NeedsReview)
		clauses = append(clauses, "needs_review = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, "status = $"+strconv.Itoa(len(args)))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += " LIMIT $" + strconv.Itoa(len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("resultRepo.List: %w", err)
	}

	results := make([]domain.ProcessingResult, 0, len(rows))
	for i := range rows {
		result, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("resultRepo.List: %w", err)
		}
		results = append(results, *result)
	}
	return results, nil
}

const statsQuery = `SELECT
	COUNT(*) AS total_processed,
	COUNT(CASE WHEN confidence_detail->>'overallConfidence' = 'high' THEN 1 END) AS high_confidence,
	COUNT(CASE WHEN confidence_detail->>'overallConfidence' = 'medium' THEN 1 END) AS medium_confidence,
	COUNT(CASE WHEN confidence_detail->>'overallConfidence' = 'low' THEN 1 END) AS low_confidence,
	COUNT(CASE WHEN needs_review THEN 1 END) AS needs_review,
	COUNT(CASE WHEN success THEN 1 END) AS succeeded,
	COALESCE(AVG(processing_ms), 0) AS avg_processing_ms
FROM processing_results`

func (r *resultRepo) GetStats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	if err := r.db.GetContext(ctx, &stats, statsQuery); err != nil {
		return nil, fmt.Errorf("resultRepo.GetStats: %w", err)
	}
	return &stats, nil
}

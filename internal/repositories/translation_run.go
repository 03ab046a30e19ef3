package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

var _ models.Repository[*models.TranslationRun] = (*TranslationRunRepository)(nil)

// TranslationRunRepository implements [models.Repository] for [models.TranslationRun] persistence.
type TranslationRunRepository struct {
	db *sql.DB
}

// NewTranslationRunRepository creates a new [TranslationRunRepository] with the given database connection
func NewTranslationRunRepository(db *sql.DB) *TranslationRunRepository {
	return &TranslationRunRepository{db: db}
}

// Create inserts a new run with a generated ID
func (r *TranslationRunRepository) Create(run *models.TranslationRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)

	query := `
		INSERT INTO translation_runs (id, user_id, song_title, source_language, total_lines, unique_lines, batches, failed_batches, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, id, run.UserID, run.SongTitle, run.SourceLanguage,
		run.TotalLines, run.UniqueLines, run.Batches, run.FailedBatches, run.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert translation run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID
func (r *TranslationRunRepository) Get(id string) (*models.TranslationRun, error) {
	query := `
		SELECT id, user_id, song_title, source_language, total_lines, unique_lines, batches, failed_batches, created_at
		FROM translation_runs
		WHERE id = ?
	`

	run, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: translation run %s", ErrNotFound, id)
	}
	return run, err
}

// Delete removes a run by ID
func (r *TranslationRunRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM translation_runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete translation run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: translation run %s", ErrNotFound, id)
	}
	return nil
}

// List retrieves runs filtered by "user_id" and "song_title" criteria, newest first
func (r *TranslationRunRepository) List(criteria map[string]any) ([]*models.TranslationRun, error) {
	query := `
		SELECT id, user_id, song_title, source_language, total_lines, unique_lines, batches, failed_batches, created_at
		FROM translation_runs
		WHERE 1 = 1
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if songTitle, ok := criteria["song_title"].(string); ok && songTitle != "" {
		query += " AND song_title = ?"
		args = append(args, songTitle)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query translation runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.TranslationRun
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *TranslationRunRepository) scan(row scanner) (*models.TranslationRun, error) {
	var (
		id        string
		createdAt time.Time
		run       models.TranslationRun
	)

	err := row.Scan(&id, &run.UserID, &run.SongTitle, &run.SourceLanguage,
		&run.TotalLines, &run.UniqueLines, &run.Batches, &run.FailedBatches, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan translation run: %w", err)
	}

	run.SetID(id)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(createdAt)
	return &run, nil
}

// RecordRun implements tasks.RunRecorder.
func (r *TranslationRunRepository) RecordRun(run *models.TranslationRun) error {
	return r.Create(run)
}

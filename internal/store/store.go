package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang/snappy"
	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/climatevision/explorer/internal/errors"
	"github.com/climatevision/explorer/internal/run"
	"github.com/climatevision/explorer/pkg/types"
)

// RunStore persists runs under their RunID.
type RunStore interface {
	// Add stores a new run and returns the id assigned to it.
	Add(ctx context.Context, r run.Run) (types.RunID, error)

	// Replace overwrites the run stored under id.
	Replace(ctx context.Context, id types.RunID, r run.Run) error

	// Remove deletes the run stored under id. Its id is never reused.
	Remove(ctx context.Context, id types.RunID) error

	// Get loads a single run.
	Get(ctx context.Context, id types.RunID) (run.Run, error)

	// List returns the catalog entries of all runs in id order.
	List(ctx context.Context) ([]*RunRecord, error)

	// FindByFingerprint returns the id of a stored run with the given content.
	FindByFingerprint(ctx context.Context, f run.Fingerprint) (types.RunID, bool, error)

	// Load reads every run into a Collection that continues the id sequence.
	Load(ctx context.Context) (run.Collection, error)

	// Close closes the database connection.
	Close() error
}

// RunRecord is the catalog entry of a stored run, without its payload.
type RunRecord struct {
	ID          types.RunID
	Inputs      run.Inputs
	Fingerprint run.Fingerprint
	SizeBytes   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SQLiteStore implements RunStore using SQLite. Payloads are the JSON wire
// encoding of the run, snappy-compressed.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex // Serializes writers
}

// NewSQLiteStore opens or creates the run catalog at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // Single writer
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range AllSchemaSQL() {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// encode returns the compressed payload and the fingerprint of r.
func encode(r run.Run) ([]byte, run.Fingerprint, error) {
	raw, err := run.EncodeRun(r)
	if err != nil {
		return nil, run.Fingerprint{}, apperrors.NewStoreError(apperrors.CodeWriteFailed, "failed to encode run", err)
	}
	return snappy.Encode(nil, raw), run.FingerprintOf(r), nil
}

// Add stores a new run.
func (s *SQLiteStore) Add(ctx context.Context, r run.Run) (types.RunID, error) {
	payload, fp, err := encode(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (ags, year, fingerprint, payload, size_bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Inputs.AGS, r.Inputs.Year, fp.String(), payload, len(payload), now, now,
	)
	if err != nil {
		return 0, apperrors.NewStoreError(apperrors.CodeWriteFailed, "failed to insert run", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStoreError(apperrors.CodeWriteFailed, "failed to read assigned run id", err)
	}
	return types.RunID(id), nil
}

// Replace overwrites an existing run.
func (s *SQLiteStore) Replace(ctx context.Context, id types.RunID, r run.Run) error {
	payload, fp, err := encode(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET ags = ?, year = ?, fingerprint = ?, payload = ?, size_bytes = ?, updated_at = ?
		WHERE run_id = ?`,
		r.Inputs.AGS, r.Inputs.Year, fp.String(), payload, len(payload), time.Now().Unix(), int64(id),
	)
	if err != nil {
		return apperrors.NewStoreError(apperrors.CodeWriteFailed, fmt.Sprintf("failed to update run %d", id), err)
	}
	return requireOneRow(res, id)
}

// Remove deletes a run.
func (s *SQLiteStore) Remove(ctx context.Context, id types.RunID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE run_id = ?", int64(id))
	if err != nil {
		return apperrors.NewStoreError(apperrors.CodeWriteFailed, fmt.Sprintf("failed to delete run %d", id), err)
	}
	return requireOneRow(res, id)
}

func requireOneRow(res sql.Result, id types.RunID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError(apperrors.CodeWriteFailed, "failed to read affected rows", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func notFound(id types.RunID) error {
	return apperrors.NewStoreError(apperrors.CodeRunNotFound, fmt.Sprintf("run %d not found", id), nil)
}

// Get loads one run and verifies its fingerprint.
func (s *SQLiteStore) Get(ctx context.Context, id types.RunID) (run.Run, error) {
	var fingerprint string
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT fingerprint, payload FROM runs WHERE run_id = ?", int64(id),
	).Scan(&fingerprint, &payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return run.Run{}, notFound(id)
		}
		return run.Run{}, apperrors.NewStoreError(apperrors.CodeReadFailed, fmt.Sprintf("failed to read run %d", id), err)
	}
	return decode(id, fingerprint, payload)
}

func decode(id types.RunID, fingerprint string, payload []byte) (run.Run, error) {
	raw, err := snappy.Decode(nil, payload)
	if err != nil {
		log.Printf("store: run %d payload is not valid snappy data: %v", id, err)
		return run.Run{}, corrupted(id, err)
	}
	r, err := run.DecodeRun(raw)
	if err != nil {
		log.Printf("store: run %d payload does not decode: %v", id, err)
		return run.Run{}, corrupted(id, err)
	}
	want, ok := run.ParseFingerprint(fingerprint)
	if !ok || run.FingerprintOf(r) != want {
		log.Printf("store: run %d fingerprint mismatch (stored %s)", id, fingerprint)
		return run.Run{}, corrupted(id, nil)
	}
	return r, nil
}

func corrupted(id types.RunID, cause error) error {
	return apperrors.NewStoreError(apperrors.CodeCorruptionDetected, fmt.Sprintf("run %d is corrupted", id), cause).
		WithDetails(map[string]interface{}{"run_id": int(id)})
}

// List returns catalog entries in id order.
func (s *SQLiteStore) List(ctx context.Context) ([]*RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, ags, year, fingerprint, size_bytes, created_at, updated_at
		FROM runs ORDER BY run_id`)
	if err != nil {
		return nil, apperrors.NewStoreError(apperrors.CodeReadFailed, "failed to list runs", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		var (
			id                   int64
			rec                  RunRecord
			fingerprint          string
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&id, &rec.Inputs.AGS, &rec.Inputs.Year, &fingerprint, &rec.SizeBytes, &createdAt, &updatedAt); err != nil {
			return nil, apperrors.NewStoreError(apperrors.CodeReadFailed, "failed to scan run", err)
		}
		rec.ID = types.RunID(id)
		rec.Fingerprint, _ = run.ParseFingerprint(fingerprint)
		rec.CreatedAt = time.Unix(createdAt, 0)
		rec.UpdatedAt = time.Unix(updatedAt, 0)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError(apperrors.CodeReadFailed, "failed to list runs", err)
	}
	return records, nil
}

// FindByFingerprint looks up a run by content.
func (s *SQLiteStore) FindByFingerprint(ctx context.Context, f run.Fingerprint) (types.RunID, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT run_id FROM runs WHERE fingerprint = ? ORDER BY run_id LIMIT 1", f.String(),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, apperrors.NewStoreError(apperrors.CodeReadFailed, "failed to look up fingerprint", err)
	}
	return types.RunID(id), true, nil
}

// Load reads all runs. The next id continues after the highest id ever
// assigned, including deleted ones.
func (s *SQLiteStore) Load(ctx context.Context) (run.Collection, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT run_id, fingerprint, payload FROM runs ORDER BY run_id")
	if err != nil {
		return run.Collection{}, apperrors.NewStoreError(apperrors.CodeReadFailed, "failed to load runs", err)
	}
	defer rows.Close()

	runs := make(map[types.RunID]run.Run)
	for rows.Next() {
		var (
			id          int64
			fingerprint string
			payload     []byte
		)
		if err := rows.Scan(&id, &fingerprint, &payload); err != nil {
			return run.Collection{}, apperrors.NewStoreError(apperrors.CodeReadFailed, "failed to scan run", err)
		}
		r, err := decode(types.RunID(id), fingerprint, payload)
		if err != nil {
			return run.Collection{}, err
		}
		runs[types.RunID(id)] = r
	}
	if err := rows.Err(); err != nil {
		return run.Collection{}, apperrors.NewStoreError(apperrors.CodeReadFailed, "failed to load runs", err)
	}

	next, err := s.nextID(ctx)
	if err != nil {
		return run.Collection{}, err
	}
	return run.Restore(runs, next), nil
}

func (s *SQLiteStore) nextID(ctx context.Context) (types.RunID, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, "SELECT seq FROM sqlite_sequence WHERE name = 'runs'").Scan(&seq)
	if err == sql.ErrNoRows {
		return types.FirstRunID, nil
	}
	if err != nil {
		return 0, apperrors.NewStoreError(apperrors.CodeReadFailed, "failed to read run id sequence", err)
	}
	return types.RunID(seq + 1), nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

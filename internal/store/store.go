// Package store persists uploaded images, rendered results and an index of
// every analysis in SQLite.
//
// Uploads are kept as <id>.png in the upload directory and rendered images as
// processed_<id>.png in the result directory. The SQLite database records
// one row per analysis so results can be looked up by id after the fact.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Register the "sqlite" database/sql driver

	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

var (
	// ErrNotFound is returned when a record or result file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidName is returned for result file names that are not a bare
	// file name.
	ErrInvalidName = errors.New("invalid file name")
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	id            TEXT PRIMARY KEY,
	original_name TEXT NOT NULL,
	upload_path   TEXT NOT NULL,
	result_file   TEXT NOT NULL,
	width         INTEGER NOT NULL,
	height        INTEGER NOT NULL,
	edge_points   INTEGER NOT NULL,
	line_count    INTEGER NOT NULL,
	params_json   TEXT,
	lines_json    TEXT,
	elapsed_ms    INTEGER NOT NULL,
	created_at_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_created ON results (created_at_ns);
`

// Record is one analysis run.
type Record struct {
	ID           string          `json:"id"`
	OriginalName string          `json:"original_name"`
	UploadPath   string          `json:"upload_path"`
	ResultFile   string          `json:"result_file"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	EdgePoints   int             `json:"edge_points"`
	LineCount    int             `json:"line_count"`
	Params       json.RawMessage `json:"params,omitempty"`
	Lines        json.RawMessage `json:"lines,omitempty"`
	ElapsedMs    int64           `json:"elapsed_ms"`
	CreatedAtNs  int64           `json:"created_at_ns"`
}

// Store owns the upload and result directories and the index database.
type Store struct {
	db        *sql.DB
	uploadDir string
	resultDir string
}

// Open creates the directories if needed, opens the SQLite database at
// dbPath and ensures the schema exists.
func Open(dbPath, uploadDir, resultDir string) (*Store, error) {
	for _, dir := range []string{uploadDir, resultDir, filepath.Dir(dbPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, uploadDir: uploadDir, resultDir: resultDir}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewID returns a fresh identifier: a random UUID without dashes.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// SaveUpload copies r into the upload directory under a new id.
func (s *Store) SaveUpload(r io.Reader) (id, path string, err error) {
	id = NewID()
	path = filepath.Join(s.uploadDir, id+".png")

	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("failed to write upload: %w", err)
	}
	return id, path, nil
}

// Discard removes the upload and result files stored for id. Missing files
// are not an error.
func (s *Store) Discard(id string) error {
	var errs []error
	for _, path := range []string{
		filepath.Join(s.uploadDir, id+".png"),
		filepath.Join(s.resultDir, ResultFileName(id)),
	} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to discard %s: %w", id, err)
	}
	return nil
}

// ResultFileName is the name under which the rendered image for id is stored.
func ResultFileName(id string) string {
	return "processed_" + id + ".png"
}

// SaveResult encodes img as PNG into the result directory.
func (s *Store) SaveResult(id string, img image.Image) (string, error) {
	name := ResultFileName(id)
	data, err := imaging.PNGBytes(img)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.resultDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}
	return name, nil
}

// ResultPath resolves a result file name to its path. Only bare file names
// are accepted.
func (s *Store) ResultPath(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(s.resultDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// Insert adds rec to the index, stamping CreatedAtNs when unset.
func (s *Store) Insert(rec *Record) error {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAtNs == 0 {
		rec.CreatedAtNs = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO results (
			id, original_name, upload_path, result_file, width, height,
			edge_points, line_count, params_json, lines_json, elapsed_ms, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OriginalName, rec.UploadPath, rec.ResultFile, rec.Width, rec.Height,
		rec.EdgePoints, rec.LineCount, nullJSON(rec.Params), nullJSON(rec.Lines),
		rec.ElapsedMs, rec.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, original_name, upload_path, result_file, width, height,
	       edge_points, line_count, params_json, lines_json, elapsed_ms, created_at_ns
	FROM results`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var params, lines sql.NullString
	err := row.Scan(
		&rec.ID, &rec.OriginalName, &rec.UploadPath, &rec.ResultFile, &rec.Width, &rec.Height,
		&rec.EdgePoints, &rec.LineCount, &params, &lines, &rec.ElapsedMs, &rec.CreatedAtNs,
	)
	if err != nil {
		return nil, err
	}
	if params.Valid && params.String != "" {
		rec.Params = json.RawMessage(params.String)
	}
	if lines.Valid && lines.String != "" {
		rec.Lines = json.RawMessage(lines.String)
	}
	return &rec, nil
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (*Record, error) {
	rec, err := scanRecord(s.db.QueryRow(selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: result %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return rec, nil
}

// List returns up to limit records, newest first. A non-positive limit
// returns all records.
func (s *Store) List(limit int) ([]*Record, error) {
	query := selectColumns + ` ORDER BY created_at_ns DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return records, nil
}

func nullJSON(raw json.RawMessage) sql.NullString {
	if len(raw) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

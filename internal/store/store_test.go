package store

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "db", "hough.db"), filepath.Join(dir, "uploads"), filepath.Join(dir, "results"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}

func TestSaveUpload(t *testing.T) {
	s := openTestStore(t)

	id, path, err := s.SaveUpload(strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, id+".png", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestDiscard(t *testing.T) {
	s := openTestStore(t)

	id, uploadPath, err := s.SaveUpload(strings.NewReader("payload"))
	require.NoError(t, err)
	name, err := s.SaveResult(id, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	require.NoError(t, err)

	require.NoError(t, s.Discard(id))
	_, err = os.Stat(uploadPath)
	assert.True(t, os.IsNotExist(err), "upload still present: %v", err)
	_, err = s.ResultPath(name)
	assert.ErrorIs(t, err, ErrNotFound)

	// Only the upload exists, or nothing at all.
	id2, _, err := s.SaveUpload(strings.NewReader("x"))
	require.NoError(t, err)
	assert.NoError(t, s.Discard(id2))
	assert.NoError(t, s.Discard(id2))
}

func TestSaveResultAndResultPath(t *testing.T) {
	s := openTestStore(t)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)

	name, err := s.SaveResult("abc123", img)
	require.NoError(t, err)
	assert.Equal(t, "processed_abc123.png", name)

	path, err := s.ResultPath(name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestResultPath_Rejects(t *testing.T) {
	s := openTestStore(t)

	for _, name := range []string{"", ".", "..", "../hough.db", "sub/file.png", `..\x.png`} {
		_, err := s.ResultPath(name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}

	_, err := s.ResultPath("processed_missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertGet(t *testing.T) {
	s := openTestStore(t)
	rec := &Record{
		OriginalName: "road.jpg",
		UploadPath:   "uploads/x.png",
		ResultFile:   "processed_x.png",
		Width:        640,
		Height:       480,
		EdgePoints:   1234,
		LineCount:    3,
		Params:       json.RawMessage(`{"vote_threshold":95}`),
		ElapsedMs:    12,
	}

	require.NoError(t, s.Insert(rec))
	assert.NotEmpty(t, rec.ID)
	assert.NotZero(t, rec.CreatedAtNs)

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsert_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Insert(&Record{ID: "same"}))
	assert.Error(t, s.Insert(&Record{ID: "same"}))
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Insert(&Record{ID: id, CreatedAtNs: int64(i + 1)}))
	}

	all, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	limited, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "hough.db")

	s, err := Open(dbPath, filepath.Join(dir, "u"), filepath.Join(dir, "r"))
	require.NoError(t, err)
	require.NoError(t, s.Insert(&Record{ID: "persisted"}))
	require.NoError(t, s.Close())

	s, err = Open(dbPath, filepath.Join(dir, "u"), filepath.Join(dir, "r"))
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Get("persisted")
	assert.NoError(t, err)
}

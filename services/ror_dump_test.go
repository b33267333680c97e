package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `[
  {"id":"https://ror.org/01pxwe438","names":[
    {"value":"McGill","types":["acronym"]},
    {"value":"McGill University","types":["ror_display","label"]}]},
  {"id":"https://ror.org/05a28rw58","names":[
    {"value":"ETH Zurich","types":["ror_display"]},
    {"value":"ETH Zürich","types":["ror_display"]}]},
  {"id":"https://ror.org/03dbr7087","names":[
    {"value":"University of Toronto","types":["ror_display"]}]},
  {"id":"https://ror.org/duplicate","names":[
    {"value":"McGill University","types":["ror_display"]}]},
  {"id":"https://ror.org/nodisplay","names":[
    {"value":"Unnamed","types":["label"]}]}
]`

func newDumpServer(t *testing.T, body string, status int) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestParseDumpNames(t *testing.T) {
	names, err := parseDumpNames(strings.NewReader(sampleDump))
	require.NoError(t, err)
	assert.Equal(t, []string{"ETH Zurich", "McGill University", "University of Toronto"}, names)

	_, err = parseDumpNames(strings.NewReader(`{"not":"an array"`))
	assert.Error(t, err)
}

func TestRORDump_EnsureDumpDownloadsOnce(t *testing.T) {
	server, hits := newDumpServer(t, sampleDump, http.StatusOK)
	path := filepath.Join(t.TempDir(), "ror", "ror_dump.json")
	d := NewRORDump(server.URL, path, utils.NewNopLogger())
	ctx := context.Background()

	_, err := d.LoadNames()
	assert.ErrorIs(t, err, ErrDumpMissing)

	require.NoError(t, d.EnsureDump(ctx))
	require.NoError(t, d.EnsureDump(ctx))
	assert.EqualValues(t, 1, atomic.LoadInt32(hits), "an existing dump is not downloaded again")

	got, err := d.Suggest("UNIV", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"McGill University", "University of Toronto"}, got)

	got, err = d.Suggest("", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ETH Zurich"}, got)
}

func TestRORDump_RefreshReplacesCachedNames(t *testing.T) {
	server, _ := newDumpServer(t, sampleDump, http.StatusOK)
	path := filepath.Join(t.TempDir(), "ror_dump.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"names":[{"value":"Old Name","types":["ror_display"]}]}]`), 0o644))

	d := NewRORDump(server.URL, path, utils.NewNopLogger())
	names, err := d.LoadNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Old Name"}, names)

	require.NoError(t, d.Refresh(context.Background()))
	names, err = d.LoadNames()
	require.NoError(t, err)
	assert.Len(t, names, 3)
}

func TestRORDump_FailedDownloadKeepsExistingFile(t *testing.T) {
	server, _ := newDumpServer(t, "unavailable", http.StatusServiceUnavailable)
	path := filepath.Join(t.TempDir(), "ror_dump.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDump), 0o644))

	d := NewRORDump(server.URL, path, utils.NewNopLogger())
	assert.Error(t, d.Refresh(context.Background()))

	names, err := d.LoadNames()
	require.NoError(t, err)
	assert.Len(t, names, 3)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

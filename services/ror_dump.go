package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
)

// RORDumpTimeout bounds a dump download
const RORDumpTimeout = 20 * time.Second

// DefaultSuggestionLimit caps /universities/suggestions when no limit is given
const DefaultSuggestionLimit = 20

// ErrDumpMissing is returned by LoadNames before the dump has been downloaded
var ErrDumpMissing = errors.New("ROR dump not found")

// RORDump keeps a local copy of the ROR data dump and the display names extracted from it
type RORDump struct {
	URL        string
	Path       string
	HTTPClient *http.Client
	log        *utils.Logger

	mu    sync.RWMutex
	names []string
}

// NewRORDump creates a dump manager storing the file at path
func NewRORDump(url, path string, log *utils.Logger) *RORDump {
	return &RORDump{
		URL:        url,
		Path:       path,
		HTTPClient: &http.Client{Timeout: RORDumpTimeout},
		log:        log,
	}
}

type rorDumpRecord struct {
	Names []struct {
		Value string   `json:"value"`
		Types []string `json:"types"`
	} `json:"names"`
}

// EnsureDump downloads the dump when no local copy exists. A failed download is
// logged and returned; the service keeps running without suggestions.
func (d *RORDump) EnsureDump(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(d.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}
	if _, err := os.Stat(d.Path); err == nil {
		d.log.Info("ROR dump found", "path", d.Path)
		return nil
	}
	return d.Refresh(ctx)
}

// Refresh downloads the dump unconditionally, replacing the local copy and the cached names
func (d *RORDump) Refresh(ctx context.Context) error {
	if d.URL == "" {
		return errors.New("ROR dump url is not configured")
	}
	d.log.Info("Downloading ROR dump", "url", d.URL)

	ctx, cancel := context.WithTimeout(ctx, RORDumpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return err
	}
	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		d.log.Error("Failed to download ROR dump", "error", err)
		return fmt.Errorf("failed to download ROR dump: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		d.log.Error("Failed to download ROR dump", "status", resp.StatusCode)
		return fmt.Errorf("failed to download ROR dump: status %d", resp.StatusCode)
	}

	// Write next to the target and rename so readers never see a partial file
	tmp, err := os.CreateTemp(filepath.Dir(d.Path), ".ror_dump-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ROR dump: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), d.Path); err != nil {
		return err
	}

	d.mu.Lock()
	d.names = nil
	d.mu.Unlock()

	d.log.Info("ROR dump saved", "path", d.Path)
	return nil
}

// LoadNames returns the first ror_display name of every record, sorted and unique
func (d *RORDump) LoadNames() ([]string, error) {
	d.mu.RLock()
	cached := d.names
	d.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	f, err := os.Open(d.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrDumpMissing
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names, err := parseDumpNames(f)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.names = names
	d.mu.Unlock()
	return names, nil
}

// parseDumpNames streams the dump array so the whole file is never decoded at once
func parseDumpNames(r io.Reader) ([]string, error) {
	dec := json.NewDecoder(r)
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid ROR dump: %w", err)
	}

	seen := map[string]bool{}
	for dec.More() {
		var record rorDumpRecord
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("invalid ROR dump record: %w", err)
		}
	names:
		for _, n := range record.Names {
			for _, t := range n.Types {
				if t == "ror_display" {
					seen[n.Value] = true
					break names
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Suggest returns up to limit dump names containing q, case-insensitively, in name order
func (d *RORDump) Suggest(q string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	names, err := d.LoadNames()
	if err != nil {
		return nil, err
	}

	q = strings.ToLower(strings.TrimSpace(q))
	out := []string{}
	for _, n := range names {
		if q == "" || strings.Contains(strings.ToLower(n), q) {
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

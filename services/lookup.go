package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/cache"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/metrics"
)

// RegistryOrganization is the canonical record returned by the ROR registry
type RegistryOrganization struct {
	Name    string   `json:"name"`
	RORID   string   `json:"ror_id"`
	Aliases []string `json:"aliases,omitempty"`
}

// RegistryCountry is the canonical record returned by the countries registry
type RegistryCountry struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// UniversityLookup resolves a free-text institution name. (nil, nil) means "not found".
type UniversityLookup func(ctx context.Context, query string) (*RegistryOrganization, error)

// CountryLookup resolves a free-text country name. (nil, nil) means "not found".
type CountryLookup func(ctx context.Context, name string) (*RegistryCountry, error)

// RegistryClient talks to the public ROR and REST Countries APIs.
// One GET per lookup, no retries.
type RegistryClient struct {
	RORURL       string
	CountriesURL string
	HTTPClient   *http.Client
	metrics      *metrics.Metrics
}

// NewRegistryClient creates a registry client with the given request timeout
func NewRegistryClient(rorURL, countriesURL string, timeout time.Duration, m *metrics.Metrics) *RegistryClient {
	return &RegistryClient{
		RORURL:       strings.TrimRight(rorURL, "/"),
		CountriesURL: strings.TrimRight(countriesURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
	}
}

type rorSearchResponse struct {
	Items []rorOrganization `json:"items"`
}

type rorOrganization struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
	// v2 schema
	Names []rorName `json:"names"`
}

type rorName struct {
	Value string   `json:"value"`
	Types []string `json:"types"`
}

func (o rorOrganization) canonical() *RegistryOrganization {
	org := &RegistryOrganization{Name: o.Name, RORID: o.ID, Aliases: o.Aliases}
	for _, n := range o.Names {
		switch {
		case hasType(n.Types, "ror_display") && org.Name == "":
			org.Name = n.Value
		case hasType(n.Types, "alias") || hasType(n.Types, "acronym"):
			org.Aliases = append(org.Aliases, n.Value)
		}
	}
	return org
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

// LookupUniversity returns the first ROR match for query
func (c *RegistryClient) LookupUniversity(ctx context.Context, query string) (*RegistryOrganization, error) {
	endpoint := c.RORURL + "?query=" + url.QueryEscape(query)

	var result rorSearchResponse
	found, err := c.getJSON(ctx, endpoint, &result)
	if err != nil {
		c.metrics.IncLookup("ror", "error")
		return nil, fmt.Errorf("ROR lookup failed: %w", err)
	}
	if !found || len(result.Items) == 0 {
		c.metrics.IncLookup("ror", "miss")
		return nil, nil
	}

	org := result.Items[0].canonical()
	if org.Name == "" || org.RORID == "" {
		c.metrics.IncLookup("ror", "miss")
		return nil, nil
	}
	c.metrics.IncLookup("ror", "hit")
	return org, nil
}

type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2 string `json:"cca2"`
}

// LookupCountry returns the first REST Countries match for name
func (c *RegistryClient) LookupCountry(ctx context.Context, name string) (*RegistryCountry, error) {
	endpoint := c.CountriesURL + "/" + url.PathEscape(name)

	var result []restCountry
	found, err := c.getJSON(ctx, endpoint, &result)
	if err != nil {
		c.metrics.IncLookup("countries", "error")
		return nil, fmt.Errorf("country lookup failed: %w", err)
	}
	if !found || len(result) == 0 || result[0].Name.Common == "" {
		c.metrics.IncLookup("countries", "miss")
		return nil, nil
	}

	c.metrics.IncLookup("countries", "hit")
	return &RegistryCountry{Name: result[0].Name.Common, Code: result[0].CCA2}, nil
}

// getJSON decodes a 200 response into dest. A 404 reports found=false without error.
func (c *RegistryClient) getJSON(ctx context.Context, endpoint string, dest interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("registry returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return true, nil
}

// CachedUniversityLookup memoises positive ROR answers. Cache failures fall through to next.
func CachedUniversityLookup(c cache.JSONCache, ttl time.Duration, next UniversityLookup, m *metrics.Metrics, log *utils.Logger) UniversityLookup {
	return func(ctx context.Context, query string) (*RegistryOrganization, error) {
		key := "lookup:ror:" + strings.ToLower(strings.TrimSpace(query))

		var cached RegistryOrganization
		if err := c.GetJSON(ctx, key, &cached); err == nil {
			m.IncLookup("ror", "cached")
			return &cached, nil
		}

		org, err := next(ctx, query)
		if err != nil || org == nil {
			return org, err
		}
		if err := c.SetJSON(ctx, key, org, ttl); err != nil {
			log.Warn("Failed to cache ROR lookup", "query", query, "error", err)
		}
		return org, nil
	}
}

// CachedCountryLookup memoises positive country answers. Cache failures fall through to next.
func CachedCountryLookup(c cache.JSONCache, ttl time.Duration, next CountryLookup, m *metrics.Metrics, log *utils.Logger) CountryLookup {
	return func(ctx context.Context, name string) (*RegistryCountry, error) {
		key := "lookup:country:" + strings.ToLower(strings.TrimSpace(name))

		var cached RegistryCountry
		if err := c.GetJSON(ctx, key, &cached); err == nil {
			m.IncLookup("countries", "cached")
			return &cached, nil
		}

		country, err := next(ctx, name)
		if err != nil || country == nil {
			return country, err
		}
		if err := c.SetJSON(ctx, key, country, ttl); err != nil {
			log.Warn("Failed to cache country lookup", "name", name, "error", err)
		}
		return country, nil
	}
}

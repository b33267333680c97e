package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryClient_LookupUniversity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("query") {
		case "mcgill":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items":[{"id":"https://ror.org/01pxwe438","names":[
				{"value":"McGill","types":["acronym"]},
				{"value":"McGill University","types":["ror_display","label"]},
				{"value":"Université McGill","types":["alias"]}]}]}`))
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"items":[]}`))
		}
	}))
	defer server.Close()

	c := NewRegistryClient(server.URL, server.URL, time.Second, nil)
	ctx := context.Background()

	org, err := c.LookupUniversity(ctx, "mcgill")
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, "McGill University", org.Name)
	assert.Equal(t, "https://ror.org/01pxwe438", org.RORID)
	assert.ElementsMatch(t, []string{"McGill", "Université McGill"}, org.Aliases)

	org, err = c.LookupUniversity(ctx, "nothing")
	require.NoError(t, err)
	assert.Nil(t, org)

	_, err = c.LookupUniversity(ctx, "boom")
	assert.Error(t, err)
}

func TestRegistryClient_LookupCountry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/canada" {
			_, _ = w.Write([]byte(`[{"name":{"common":"Canada"},"cca2":"CA"}]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewRegistryClient(server.URL, server.URL+"/", time.Second, nil)

	country, err := c.LookupCountry(context.Background(), "canada")
	require.NoError(t, err)
	assert.Equal(t, &RegistryCountry{Name: "Canada", Code: "CA"}, country)

	country, err = c.LookupCountry(context.Background(), "atlantis")
	require.NoError(t, err, "a 404 is a miss, not an error")
	assert.Nil(t, country)
}

// memoryCache is an in-process cache.JSONCache
type memoryCache struct {
	data    map[string][]byte
	failSet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return cache.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.failSet {
		return errors.New("cache down")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func TestCachedUniversityLookup(t *testing.T) {
	reg := &stubRegistry{org: &RegistryOrganization{Name: "ETH Zurich", RORID: "https://ror.org/05a28rw58"}}
	store := newMemoryCache()
	lookup := CachedUniversityLookup(store, time.Hour, reg.university, nil, utils.NewNopLogger())
	ctx := context.Background()

	first, err := lookup(ctx, "ETH")
	require.NoError(t, err)
	second, err := lookup(ctx, "  eth ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reg.calls, "normalised keys share one cache entry")
	assert.Contains(t, store.data, "lookup:ror:eth")
}

func TestCachedLookups_DoNotCacheMisses(t *testing.T) {
	reg := &stubRegistry{}
	store := newMemoryCache()
	lookup := CachedCountryLookup(store, time.Hour, reg.lookupCountry, nil, utils.NewNopLogger())

	for i := 0; i < 2; i++ {
		country, err := lookup(context.Background(), "Atlantis")
		require.NoError(t, err)
		assert.Nil(t, country)
	}
	assert.Equal(t, 2, reg.calls)
	assert.Empty(t, store.data)
}

func TestCachedLookups_CacheFailureFallsThrough(t *testing.T) {
	reg := &stubRegistry{country: &RegistryCountry{Name: "Canada", Code: "CA"}}
	store := newMemoryCache()
	store.failSet = true
	lookup := CachedCountryLookup(store, time.Hour, reg.lookupCountry, nil, utils.NewNopLogger())

	country, err := lookup(context.Background(), "Canada")
	require.NoError(t, err)
	assert.Equal(t, "CA", country.Code)
}

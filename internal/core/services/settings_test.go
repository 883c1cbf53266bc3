package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

// --- Mock implementations ---

// mockConfigStore implements driven.ConfigStore over a plain map.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	value, ok := m.values[key]
	return value, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if s, ok := m.values[key].(string); ok {
		return s
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetInt64(key string) int64 {
	switch v := m.values[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if b, ok := m.values[key].(bool); ok {
		return b
	}
	return false
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if s, ok := m.values[key].([]string); ok {
		return s
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "/tmp/chaja-test-config.toml" }

// --- Tests ---

func TestSettingsService_GetReturnsDefaultsWhenUnset(t *testing.T) {
	service := NewSettingsService(newMockConfigStore())

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettingsService_SaveThenGetRoundTrips(t *testing.T) {
	service := NewSettingsService(newMockConfigStore())

	settings := domain.DefaultSettings()
	settings.Threshold = 0.4
	settings.Distance = 200
	settings.IgnoreLocation = true
	settings.UseExtendedGrammar = true
	settings.NameWeight = 0.8
	settings.ContentWeight = 0.2
	settings.ResultLimit = 50
	settings.RecentWindow = 3 * 24 * time.Hour
	settings.SmallFileSize = 1024
	settings.Extensions = []string{".org", ".md"}

	require.NoError(t, service.Save(settings))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSettingsService_GetMergesPartialConfig(t *testing.T) {
	store := newMockConfigStore()
	require.NoError(t, store.Set(keyThreshold, 0.3))
	service := NewSettingsService(store)

	settings, err := service.Get()
	require.NoError(t, err)

	expected := domain.DefaultSettings()
	expected.Threshold = 0.3
	assert.Equal(t, expected, settings)
}

func TestSettingsService_GetRejectsInvalidStoredValues(t *testing.T) {
	store := newMockConfigStore()
	require.NoError(t, store.Set(keyThreshold, 5.0))
	service := NewSettingsService(store)

	_, err := service.Get()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SaveRejectsInvalidSettings(t *testing.T) {
	store := newMockConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultSettings()
	settings.ResultLimit = 0

	err := service.Save(settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.values)
}

func TestSettingsService_SetThreshold(t *testing.T) {
	store := newMockConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetThreshold(0.25))
	assert.Equal(t, 0.25, store.GetFloat(keyThreshold))

	assert.ErrorIs(t, service.SetThreshold(-0.1), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.SetThreshold(1.1), domain.ErrInvalidInput)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(newMockConfigStore())
	assert.Equal(t, domain.DefaultSettings(), service.GetDefaults())
}

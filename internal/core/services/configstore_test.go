package services

import (
	"sort"

	"github.com/crboyd/phantom/internal/core/ports/driven"
)

var _ driven.ConfigStore = (mapConfigStore)(nil)

// mapConfigStore is a map-backed driven.ConfigStore for settings tests.
type mapConfigStore map[string]any

func newMapConfigStore() mapConfigStore {
	return make(mapConfigStore)
}

func (m mapConfigStore) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapConfigStore) GetString(key string) string {
	s, _ := m[key].(string)
	return s
}

func (m mapConfigStore) GetInt(key string) int {
	switch v := m[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func (m mapConfigStore) GetFloat(key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func (m mapConfigStore) GetBool(key string) bool {
	b, _ := m[key].(bool)
	return b
}

func (m mapConfigStore) Set(key string, value any) error {
	m[key] = value
	return nil
}

func (m mapConfigStore) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m mapConfigStore) Load() error  { return nil }
func (m mapConfigStore) Path() string { return "" }

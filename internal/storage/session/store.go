// Package session holds the key-value store scoped to one browsing session and
// the typed context components use to reach it.
package session

import (
	"github.com/patrickmn/go-cache"
)

// Keys written to the store. Values are strings, mirroring browser session storage.
const (
	KeyCompanyID     = "ai_compass_company_id"
	KeyResponseID    = "ai_compass_response_id"
	KeyQuestionnaire = "cached_questionnaire_data"
	KeyAnswers       = "ai_compass_answers"
)

// Store is a key-value store that lives exactly as long as one browsing session.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	// Add stores value only if key is absent and reports whether it did.
	Add(key, value string) bool
	Delete(key string)
	Clear()
}

// MemoryStore keeps values in process memory. Entries never expire on their
// own; the owner of the browsing session clears the store when it ends.
type MemoryStore struct {
	items *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	v, ok := s.items.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.items.Set(key, value, cache.NoExpiration)
}

func (s *MemoryStore) Add(key, value string) bool {
	return s.items.Add(key, value, cache.NoExpiration) == nil
}

func (s *MemoryStore) Delete(key string) {
	s.items.Delete(key)
}

func (s *MemoryStore) Clear() {
	s.items.Flush()
}

// Len reports the number of stored keys.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

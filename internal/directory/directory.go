// Package directory resolves @-mention queries against the configured people.
package directory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zjrosen/pastille/internal/cachemanager"
	"github.com/zjrosen/pastille/internal/config"
	"github.com/zjrosen/pastille/internal/log"
)

// Person is a resolvable directory entry.
type Person struct {
	Key   string
	Name  string
	Color string
}

// Display returns the text a confirmed mention renders as.
func (p Person) Display() string {
	return "@" + p.Name
}

// Service answers mention queries over the configured people, caching
// search results for the configured TTL.
type Service struct {
	mu     sync.RWMutex
	people []Person
	byKey  map[string]Person

	ttl     time.Duration
	manager cachemanager.CacheManager[string, []Person]
	cache   *cachemanager.ReadThroughCache[string, []Person, string]
}

// NewService builds a directory service from configuration.
func NewService(cfg config.DirectoryConfig) *Service {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	s := &Service{ttl: ttl}

	s.manager = cachemanager.NewInMemoryCacheManager[string, []Person](
		"directory-search", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	s.cache = cachemanager.NewReadThroughCache[string, []Person, string](
		s.manager, s.search, ttl == 0)

	s.SetPeople(cfg.People)
	return s
}

// SetPeople replaces the directory contents, invalidating cached searches.
// Called on config reload.
func (s *Service) SetPeople(people []config.PersonConfig) {
	s.mu.Lock()
	s.people = s.people[:0]
	s.byKey = make(map[string]Person, len(people))
	for _, p := range people {
		person := Person{Key: p.Key, Name: p.Name, Color: p.Color}
		if person.Name == "" {
			person.Name = person.Key
		}
		s.people = append(s.people, person)
		s.byKey[strings.ToLower(person.Key)] = person
	}
	sort.Slice(s.people, func(i, j int) bool { return s.people[i].Key < s.people[j].Key })
	s.mu.Unlock()

	_ = s.manager.Flush(context.Background())
	log.Debug(log.CatDir, "directory reloaded", "people", len(people))
}

// Search returns people whose key or name starts with the query,
// case-insensitively, ordered by key. An empty query returns everyone.
func (s *Service) Search(ctx context.Context, query string) []Person {
	normalized := strings.ToLower(strings.TrimSpace(query))
	results, err := s.cache.Get(ctx, "search:"+normalized, normalized, s.ttl)
	if err != nil {
		// search never fails; the error path exists for the cache contract
		return nil
	}
	return results
}

// Resolve maps raw mention input to a person. Matching tries the exact key
// first, then falls back to a unique search hit.
func (s *Service) Resolve(ctx context.Context, input string) (Person, bool) {
	normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(input, "@")))
	if normalized == "" {
		return Person{}, false
	}

	s.mu.RLock()
	person, ok := s.byKey[normalized]
	s.mu.RUnlock()
	if ok {
		return person, true
	}

	matches := s.Search(ctx, normalized)
	if len(matches) == 1 {
		return matches[0], true
	}
	log.Debug(log.CatDir, "unresolved mention", "input", input, "matches", len(matches))
	return Person{}, false
}

func (s *Service) search(_ context.Context, query string) ([]Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == "" {
		return append([]Person(nil), s.people...), nil
	}

	var results []Person
	for _, p := range s.people {
		if strings.HasPrefix(strings.ToLower(p.Key), query) ||
			strings.HasPrefix(strings.ToLower(p.Name), query) {
			results = append(results, p)
		}
	}
	return results, nil
}

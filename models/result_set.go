package models

import (
	"errors"
	"sync"

	"morizon-scraper/utils"
)

// ErrResultSetSealed is returned by Append once the set has been sealed.
var ErrResultSetSealed = errors.New("result set is sealed")

// ResultSet is the append-only collection shared by concurrent listing tasks.
// URLs are unique within a set; a repeated URL is ignored.
type ResultSet struct {
	mu      sync.Mutex
	sealed  bool
	seen    *utils.URLSet
	results []*Result
}

// NewResultSet creates an empty, open ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{seen: utils.NewURLSet()}
}

// Append adds r unless its URL is already present. It reports whether r was
// added.
func (s *ResultSet) Append(r *Result) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return false, ErrResultSetSealed
	}
	if !s.seen.Add(r.URL) {
		return false, nil
	}
	s.results = append(s.results, r)
	return true, nil
}

// Seal stops further appends and returns the final contents.
func (s *ResultSet) Seal() []*Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sealed = true
	out := make([]*Result, len(s.results))
	copy(out, s.results)
	return out
}

// Len returns the number of results collected so far.
func (s *ResultSet) Len() int {
	return s.seen.Size()
}

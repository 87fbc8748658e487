package store

import (
	"context"
	"errors"
	"sync"

	"github.com/spigell/leadscore/internal/leads"
)

// ErrNoOffer is returned when scoring is requested before an offer was submitted.
var ErrNoOffer = errors.New("no offer found")

// RunFunc scores a snapshot of leads against the offer.
type RunFunc func(ctx context.Context, batch []leads.Lead, offer leads.Offer) *leads.ResultSet

// Store owns the active offer, the ingested leads and the latest results.
type Store struct {
	mu      sync.RWMutex
	offer   *leads.Offer
	leads   []leads.Lead
	results *leads.ResultSet

	// run serialises scoring runs so a slow run cannot be overtaken by a later one.
	run sync.Mutex
}

func New() *Store {
	return &Store{}
}

// SetOffer replaces the active offer.
func (s *Store) SetOffer(offer leads.Offer) {
	offer.ValueProps = append([]string(nil), offer.ValueProps...)
	offer.IdealUseCases = append([]string(nil), offer.IdealUseCases...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.offer = &offer
}

// Offer returns the active offer.
func (s *Store) Offer() (leads.Offer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.offer == nil {
		return leads.Offer{}, false
	}
	return *s.offer, true
}

// AddLeads appends to the lead collection and returns the new total.
func (s *Store) AddLeads(batch []leads.Lead) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, batch...)
	return len(s.leads)
}

// Leads returns a copy of the lead collection.
func (s *Store) Leads() []leads.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]leads.Lead(nil), s.leads...)
}

// Results returns the latest result set, or nil when no run has completed.
func (s *Store) Results() *leads.ResultSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

// Counts reports the number of stored leads and scored results.
func (s *Store) Counts() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads), s.results.Len()
}

// Score snapshots the offer and leads, runs fn outside the lock and swaps in the
// new result set. Readers see either the previous or the complete new set.
func (s *Store) Score(ctx context.Context, fn RunFunc) (*leads.ResultSet, error) {
	s.run.Lock()
	defer s.run.Unlock()

	s.mu.RLock()
	if s.offer == nil {
		s.mu.RUnlock()
		return nil, ErrNoOffer
	}
	offer := *s.offer
	batch := append([]leads.Lead(nil), s.leads...)
	s.mu.RUnlock()

	results := fn(ctx, batch, offer)

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	return results, nil
}

// Reset clears the offer, leads and results.
func (s *Store) Reset() {
	s.run.Lock()
	defer s.run.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.offer = nil
	s.leads = nil
	s.results = nil
}

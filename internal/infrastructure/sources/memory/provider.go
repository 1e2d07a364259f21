// Package memory holds in-process source providers backed by seeded
// fixtures. They serve tests and the demo mode of the API server.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onzecoach/onze-coach/internal/domain/availability"
	"github.com/onzecoach/onze-coach/internal/domain/matchcontext"
	"github.com/onzecoach/onze-coach/internal/domain/roster"
	"github.com/onzecoach/onze-coach/internal/usecase"
)

// Provider implements every usecase source interface from static data.
type Provider struct {
	mu sync.RWMutex

	squads    map[string]map[string]any
	pools     map[string][]roster.PoolEntry
	signals   map[string]availability.Signals
	explained map[string]map[string]time.Time
	schedules map[string]usecase.Schedule
	results   map[string][]matchcontext.MatchResult
	transfers map[string][]matchcontext.Transfer
	lineups   map[string][]matchcontext.LineupRecord
}

func NewProvider() *Provider {
	return &Provider{
		squads:    make(map[string]map[string]any),
		pools:     make(map[string][]roster.PoolEntry),
		signals:   make(map[string]availability.Signals),
		explained: make(map[string]map[string]time.Time),
		schedules: make(map[string]usecase.Schedule),
		results:   make(map[string][]matchcontext.MatchResult),
		transfers: make(map[string][]matchcontext.Transfer),
		lineups:   make(map[string][]matchcontext.LineupRecord),
	}
}

func (p *Provider) SetSquad(squadID string, raw map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.squads[squadID] = raw
}

func (p *Provider) SetPool(championship string, entries []roster.PoolEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pools[championship] = entries
}

func (p *Provider) SetSignals(championship string, sig availability.Signals) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signals[championship] = sig
}

func (p *Provider) SetAbsenceExplained(championship string, explained map[string]time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.explained[championship] = explained
}

func (p *Provider) SetSchedule(championship string, sched usecase.Schedule) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.schedules[championship] = sched
}

func (p *Provider) SetResults(championship string, results []matchcontext.MatchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results[championship] = results
}

func (p *Provider) SetTransfers(championship string, transfers []matchcontext.Transfer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transfers[championship] = transfers
}

func (p *Provider) SetLineups(championship string, lineups []matchcontext.LineupRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lineups[championship] = lineups
}

func (p *Provider) Squad(_ context.Context, squadID string) (map[string]any, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	raw, ok := p.squads[squadID]
	if !ok {
		return nil, fmt.Errorf("%w: squad %s is not seeded", usecase.ErrNotFound, squadID)
	}
	return raw, nil
}

func (p *Provider) Pool(_ context.Context, championship string) ([]roster.PoolEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pools[championship], nil
}

func (p *Provider) InjurySignals(_ context.Context, championship string) (availability.Signals, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.signals[championship], nil
}

func (p *Provider) AbsenceExplained(_ context.Context, championship string) (map[string]time.Time, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.explained[championship], nil
}

func (p *Provider) Schedule(_ context.Context, championship string) (usecase.Schedule, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.schedules[championship], nil
}

func (p *Provider) Results(_ context.Context, championship string) ([]matchcontext.MatchResult, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.results[championship], nil
}

func (p *Provider) Transfers(_ context.Context, championship string) ([]matchcontext.Transfer, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.transfers[championship], nil
}

func (p *Provider) Lineups(_ context.Context, championship string) ([]matchcontext.LineupRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lineups[championship], nil
}

// Sources wires the provider into every source slot.
func (p *Provider) Sources() usecase.Sources {
	return usecase.Sources{
		Squad:     p,
		Pool:      p,
		Injuries:  p,
		News:      p,
		Schedule:  p,
		Results:   p,
		Transfers: p,
		Lineups:   p,
	}
}

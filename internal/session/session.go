package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

// CurrentLabel is the benefit-table label of the unsaved configuration.
const CurrentLabel = "Current configuration"

// SavedScenario is a snapshot of one result bundle.
type SavedScenario struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Notes   string              `json:"notes,omitempty"`
	SavedAt time.Time           `json:"saved_at"`
	Result  domain.ResultBundle `json:"result"`
}

// Session holds one user's saved scenarios and recompute memo. Saved scenarios
// can only be appended; nothing in a session is visible to another session.
type Session struct {
	ID string

	engine    *calculation.CalculationEngine
	table     *domain.CoefficientTable
	memo      *gocache.Cache
	memoLimit int
	now       func() time.Time

	mu    sync.RWMutex
	saved []SavedScenario
}

// Memo entries expire after memoExpiration and are swept every memoCleanup.
// A session never holds more than memoLimit entries.
const (
	memoExpiration = 10 * time.Minute
	memoCleanup    = 5 * time.Minute
	memoLimit      = 2048
)

// NewSession creates an empty session over an engine and coefficient table.
func NewSession(engine *calculation.CalculationEngine, table *domain.CoefficientTable) *Session {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	return &Session{
		ID:        uuid.NewString(),
		engine:    engine,
		table:     table,
		memo:      gocache.New(memoExpiration, memoCleanup),
		memoLimit: memoLimit,
		now:       time.Now,
	}
}

// Engine returns the calculation engine the session computes with.
func (s *Session) Engine() *calculation.CalculationEngine { return s.engine }

// Table returns the coefficient table the session resolves segments from.
func (s *Session) Table() *domain.CoefficientTable { return s.table }

// Recompute returns the full result for a configuration. Results are memoised
// per configuration, segment and benefit definition; the name and notes of cfg
// are applied to the returned copy.
func (s *Session) Recompute(cfg domain.Configuration, segment string, def domain.BenefitDefinition) (*domain.ResultBundle, error) {
	if s.table == nil {
		return nil, fmt.Errorf("session has no coefficient table")
	}
	set, err := s.table.Resolve(segment)
	if err != nil {
		return nil, err
	}

	key := strings.Join([]string{set.Key, def.String(), cfg.Key()}, "#")
	if cached, ok := s.memo.Get(key); ok {
		bundle := cached.(domain.ResultBundle)
		bundle.Configuration = cfg
		return &bundle, nil
	}

	bundle, err := s.engine.ComputeFullResult(cfg, set, def)
	if err != nil {
		return nil, err
	}
	if s.memo.ItemCount() >= s.memoLimit {
		s.memo.DeleteExpired()
		if s.memo.ItemCount() >= s.memoLimit {
			s.memo.Flush()
		}
	}
	s.memo.Set(key, copyBundle(*bundle), gocache.DefaultExpiration)
	return bundle, nil
}

// RecomputeInput builds the input and recomputes it.
func (s *Session) RecomputeInput(input *domain.ScenarioInput, segment string, def domain.BenefitDefinition) (*domain.ResultBundle, error) {
	cfg, err := input.Build()
	if err != nil {
		return nil, err
	}
	return s.Recompute(cfg, segment, def)
}

// Save appends a copy of result. An empty name becomes "Scenario N".
func (s *Session) Save(result *domain.ResultBundle, name, notes string) (SavedScenario, error) {
	if result == nil {
		return SavedScenario{}, fmt.Errorf("nothing to save: no result has been computed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Scenario %d", len(s.saved)+1)
	}
	saved := SavedScenario{
		ID:      uuid.NewString(),
		Name:    name,
		Notes:   strings.TrimSpace(notes),
		SavedAt: s.now(),
		Result:  copyBundle(*result),
	}
	s.saved = append(s.saved, saved)
	return copySaved(saved), nil
}

// List returns copies of the saved scenarios in save order.
func (s *Session) List() []SavedScenario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SavedScenario, len(s.saved))
	for i, sc := range s.saved {
		out[i] = copySaved(sc)
	}
	return out
}

// Get returns a copy of the saved scenario with the given id.
func (s *Session) Get(id string) (SavedScenario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sc := range s.saved {
		if sc.ID == id {
			return copySaved(sc), true
		}
	}
	return SavedScenario{}, false
}

// Len returns the number of saved scenarios.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.saved)
}

// BenefitTable lays out the current result, when given, followed by every
// saved scenario.
func (s *Session) BenefitTable(current *domain.ResultBundle) []domain.BenefitTableRow {
	saved := s.List()
	results := make([]calculation.LabeledResult, 0, len(saved)+1)
	if current != nil {
		results = append(results, calculation.LabeledResult{Label: CurrentLabel, Result: current})
	}
	for i := range saved {
		results = append(results, calculation.LabeledResult{Label: saved[i].Name, Result: &saved[i].Result})
	}
	return calculation.BuildBenefitTable(results)
}

func copySaved(sc SavedScenario) SavedScenario {
	sc.Result = copyBundle(sc.Result)
	return sc
}

func copyBundle(b domain.ResultBundle) domain.ResultBundle {
	if b.Cost.Components != nil {
		components := make([]domain.CostComponent, len(b.Cost.Components))
		copy(components, b.Cost.Components)
		b.Cost.Components = components
	}
	return b
}

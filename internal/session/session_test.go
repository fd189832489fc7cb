package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lonelyless/decisionaid/internal/calculation"
	"github.com/lonelyless/decisionaid/internal/config"
	"github.com/lonelyless/decisionaid/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	table := config.DefaultCoefficientTable()
	return NewSession(calculation.NewCalculationEngine(), table)
}

func testConfig(t *testing.T, name string) domain.Configuration {
	t.Helper()
	input := domain.ScenarioInput{
		Name:                 name,
		UnitCost:             decimal.NewFromInt(100),
		ParticipantsPerGroup: 10,
		NumberOfGroups:       2,
	}
	cfg, err := input.Build()
	require.NoError(t, err)
	return cfg
}

func TestSession_SaveDefaultsName(t *testing.T) {
	s := newTestSession(t)
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	result, err := s.Recompute(testConfig(t, ""), "", domain.WTPBenefit())
	require.NoError(t, err)

	first, err := s.Save(result, "", "")
	require.NoError(t, err)
	second, err := s.Save(result, "  Mentored  ", "pilot")
	require.NoError(t, err)
	third, err := s.Save(result, "", "")
	require.NoError(t, err)

	assert.Equal(t, "Scenario 1", first.Name)
	assert.Equal(t, "Mentored", second.Name)
	assert.Equal(t, "pilot", second.Notes)
	assert.Equal(t, "Scenario 3", third.Name)
	assert.Equal(t, fixed, first.SavedAt)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 3, s.Len())
}

func TestSession_SaveNilResult(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Save(nil, "x", "")
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestSession_SaveCopiesResult(t *testing.T) {
	s := newTestSession(t)
	result, err := s.Recompute(testConfig(t, "a"), "", domain.WTPBenefit())
	require.NoError(t, err)

	saved, err := s.Save(result, "", "")
	require.NoError(t, err)

	result.Cost.Components[0].Label = "changed"
	result.Status = domain.StatusPoor

	got, ok := s.Get(saved.ID)
	require.True(t, ok)
	assert.NotEqual(t, "changed", got.Result.Cost.Components[0].Label)
	assert.NotEqual(t, domain.StatusPoor, got.Result.Status)

	list := s.List()
	list[0].Name = "renamed"
	list[0].Result.Cost.Components[0].Label = "changed"
	again := s.List()
	assert.Equal(t, "Scenario 1", again[0].Name)
	assert.NotEqual(t, "changed", again[0].Result.Cost.Components[0].Label)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestSession_RecomputeMemoises(t *testing.T) {
	s := newTestSession(t)
	logger := &countingLogger{}
	s.Engine().Debug = true
	s.Engine().SetLogger(logger)

	first, err := s.Recompute(testConfig(t, "first"), "average", domain.WTPBenefit())
	require.NoError(t, err)
	calls := logger.debug

	second, err := s.Recompute(testConfig(t, "second"), "average", domain.WTPBenefit())
	require.NoError(t, err)

	assert.Equal(t, calls, logger.debug, "memoised result is not recomputed")
	assert.Equal(t, "second", second.Configuration.Name)
	assert.Equal(t, first.Aggregate, second.Aggregate)

	_, err = s.Recompute(testConfig(t, "third"), "supportive", domain.WTPBenefit())
	require.NoError(t, err)
	assert.Greater(t, logger.debug, calls)
}

func TestSession_MemoIsBounded(t *testing.T) {
	s := newTestSession(t)
	s.memoLimit = 3

	for i := 0; i < 10; i++ {
		cfg := testConfig(t, fmt.Sprintf("cost %d", i))
		cfg.UnitCost = decimal.NewFromInt(int64(50 + i))
		_, err := s.Recompute(cfg, "average", domain.WTPBenefit())
		require.NoError(t, err)
		assert.LessOrEqual(t, s.memo.ItemCount(), 3)
	}

	for _, item := range s.memo.Items() {
		assert.Greater(t, item.Expiration, time.Now().UnixNano(), "memo entries expire")
	}
}

func TestSession_RecomputeErrors(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Recompute(testConfig(t, "x"), "nobody", domain.WTPBenefit())
	assert.Error(t, err)

	_, err = NewSession(nil, nil).Recompute(testConfig(t, "x"), "", domain.WTPBenefit())
	assert.Error(t, err)

	bad := &domain.ScenarioInput{Name: "bad", ParticipantsPerGroup: -1}
	_, err = s.RecomputeInput(bad, "", domain.WTPBenefit())
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSession_BenefitTable(t *testing.T) {
	s := newTestSession(t)
	current, err := s.Recompute(testConfig(t, "now"), "", domain.WTPBenefit())
	require.NoError(t, err)
	_, err = s.Save(current, "Saved", "")
	require.NoError(t, err)

	rows := s.BenefitTable(current)
	require.Len(t, rows, 2)
	assert.Equal(t, CurrentLabel, rows[0].Label)
	assert.Equal(t, "Saved", rows[1].Label)

	assert.Len(t, s.BenefitTable(nil), 1)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := NewManager(calculation.NewCalculationEngine(), config.DefaultCoefficientTable())

	a := m.Open()
	b := m.Open()
	require.NotEqual(t, a.ID, b.ID)

	result, err := a.Recompute(testConfig(t, "a"), "", domain.WTPBenefit())
	require.NoError(t, err)
	_, err = a.Save(result, "", "")
	require.NoError(t, err)

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())

	got, ok := m.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	m.Close(a.ID)
	_, ok = m.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestManager_ConcurrentSessions(t *testing.T) {
	m := NewManager(calculation.NewCalculationEngine(), config.DefaultCoefficientTable())
	cfg := testConfig(t, "shared")

	var wg sync.WaitGroup
	sessions := make([]*Session, 8)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := m.Open()
			sessions[i] = s
			for j := 0; j <= i; j++ {
				result, err := s.Recompute(cfg, "", domain.WTPBenefit())
				if err != nil {
					return
				}
				_, _ = s.Save(result, fmt.Sprintf("s%d-%d", i, j), "")
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, m.Len())
	for i, s := range sessions {
		assert.Equal(t, i+1, s.Len())
	}
}

type countingLogger struct {
	debug int
}

func (l *countingLogger) Debugf(string, ...interface{}) { l.debug++ }
func (l *countingLogger) Infof(string, ...interface{})  {}
func (l *countingLogger) Warnf(string, ...interface{})  {}
func (l *countingLogger) Errorf(string, ...interface{}) {}

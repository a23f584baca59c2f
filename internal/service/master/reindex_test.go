package master

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestPlanInsert(t *testing.T) {
	tests := []struct {
		name       string
		requested  *int
		maxKey     int
		wantShifts []Shift
		wantKey    int
	}{
		{
			name:       "nil appends after the last ranked row",
			requested:  nil,
			maxKey:     3,
			wantShifts: nil,
			wantKey:    4,
		},
		{
			name:       "nil into an empty list",
			requested:  nil,
			maxKey:     0,
			wantShifts: nil,
			wantKey:    1,
		},
		{
			name:       "insert at the head shifts everything up",
			requested:  intPtr(1),
			maxKey:     3,
			wantShifts: []Shift{{From: 1, To: 0, Delta: 1}},
			wantKey:    1,
		},
		{
			name:       "insert mid-list",
			requested:  intPtr(2),
			maxKey:     3,
			wantShifts: []Shift{{From: 2, To: 0, Delta: 1}},
			wantKey:    2,
		},
		{
			name:       "requested exactly one past the end needs no shift",
			requested:  intPtr(4),
			maxKey:     3,
			wantShifts: nil,
			wantKey:    4,
		},
		{
			name:       "requested far past the end clamps to N+1",
			requested:  intPtr(100),
			maxKey:     3,
			wantShifts: nil,
			wantKey:    4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shifts, key := PlanInsert(tt.requested, tt.maxKey)
			assert.Equal(t, tt.wantShifts, shifts)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestPlanMove(t *testing.T) {
	tests := []struct {
		name       string
		oldKey     *int
		requested  int
		maxKey     int
		wantShifts []Shift
		wantKey    int
	}{
		{
			name:       "no-op when target equals current",
			oldKey:     intPtr(2),
			requested:  2,
			maxKey:     5,
			wantShifts: nil,
			wantKey:    2,
		},
		{
			name:       "moving down shifts the passed rows up",
			oldKey:     intPtr(4),
			requested:  2,
			maxKey:     5,
			wantShifts: []Shift{{From: 2, To: 3, Delta: 1}},
			wantKey:    2,
		},
		{
			name:       "moving up shifts the passed rows down",
			oldKey:     intPtr(2),
			requested:  4,
			maxKey:     5,
			wantShifts: []Shift{{From: 3, To: 4, Delta: -1}},
			wantKey:    4,
		},
		{
			name:       "target past the end clamps to N for a ranked row",
			oldKey:     intPtr(2),
			requested:  100,
			maxKey:     5,
			wantShifts: []Shift{{From: 3, To: 5, Delta: -1}},
			wantKey:    5,
		},
		{
			name:       "target below 1 clamps to the head",
			oldKey:     intPtr(3),
			requested:  0,
			maxKey:     5,
			wantShifts: []Shift{{From: 1, To: 2, Delta: 1}},
			wantKey:    1,
		},
		{
			name:       "unranked row joins like an insert",
			oldKey:     nil,
			requested:  2,
			maxKey:     5,
			wantShifts: []Shift{{From: 2, To: 0, Delta: 1}},
			wantKey:    2,
		},
		{
			name:       "unranked row appended to the tail",
			oldKey:     nil,
			requested:  6,
			maxKey:     5,
			wantShifts: nil,
			wantKey:    6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shifts, key := PlanMove(tt.oldKey, tt.requested, tt.maxKey)
			assert.Equal(t, tt.wantShifts, shifts)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestPlanClear(t *testing.T) {
	assert.Nil(t, PlanClear(nil), "clearing an unranked row is a no-op")
	assert.Equal(t, []Shift{{From: 3, To: 0, Delta: -1}}, PlanClear(intPtr(2)))
}

// model is an in-memory ordered collection used to check that any sequence of
// planned operations keeps the ranked keys dense at 1..N.
type model struct {
	keys map[string]*int
	next int
}

func (m *model) apply(shifts []Shift) {
	for _, s := range shifts {
		for id, key := range m.keys {
			if key == nil {
				continue
			}
			if *key >= s.From && (s.To == 0 || *key <= s.To) {
				v := *key + s.Delta
				m.keys[id] = &v
			}
		}
	}
}

func (m *model) maxKey() int {
	max := 0
	for _, key := range m.keys {
		if key != nil && *key > max {
			max = *key
		}
	}
	return max
}

func (m *model) rankedIDs() []string {
	var ids []string
	for id, key := range m.keys {
		if key != nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return *m.keys[ids[i]] < *m.keys[ids[j]] })
	return ids
}

func (m *model) assertDense(t *testing.T) {
	t.Helper()
	ids := m.rankedIDs()
	for i, id := range ids {
		require.Equal(t, i+1, *m.keys[id], "ranked keys must be contiguous 1..N, got gap at %s", id)
	}
}

func TestPlansKeepKeysDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := &model{keys: make(map[string]*int)}

	newID := func() string {
		m.next++
		return fmt.Sprintf("row-%d", m.next)
	}

	randomID := func() (string, bool) {
		for id := range m.keys {
			return id, true
		}
		return "", false
	}

	for i := 0; i < 2000; i++ {
		switch op := rng.Intn(4); op {
		case 0: // insert
			var requested *int
			if rng.Intn(2) == 0 {
				requested = intPtr(rng.Intn(10) - 2)
			}
			shifts, key := PlanInsert(requested, m.maxKey())
			m.apply(shifts)
			m.keys[newID()] = &key
		case 1: // move
			id, ok := randomID()
			if !ok {
				continue
			}
			shifts, key := PlanMove(m.keys[id], rng.Intn(12)-2, m.maxKey())
			m.apply(shifts)
			m.keys[id] = &key
		case 2: // clear
			id, ok := randomID()
			if !ok {
				continue
			}
			m.apply(PlanClear(m.keys[id]))
			m.keys[id] = nil
		case 3: // remove
			id, ok := randomID()
			if !ok {
				continue
			}
			m.apply(PlanRemove(m.keys[id]))
			delete(m.keys, id)
		}

		m.assertDense(t)
	}
}

package master

// Shift moves every display_order_key in [From, To] by Delta. To == 0 means
// the range is unbounded above. Executing a plan's shifts in order, then
// applying the planned key, keeps the ranked rows dense at 1..N; duplicates
// that exist between the shift and the final key write resolve at commit
// because the unique constraint on the column is deferred.
type Shift struct {
	From  int
	To    int
	Delta int
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PlanInsert plans ranking a brand new row. A nil request appends after the
// last ranked row, which needs no shifting. A requested rank is clamped to
// [1, N+1] and everything at or above it moves up one.
func PlanInsert(requested *int, maxKey int) ([]Shift, int) {
	if requested == nil {
		return nil, maxKey + 1
	}

	key := clamp(*requested, 1, maxKey+1)
	if key == maxKey+1 {
		return nil, key
	}
	return []Shift{{From: key, To: 0, Delta: 1}}, key
}

// PlanMove plans giving an existing row the requested rank. A previously
// unranked row joins the list exactly like an insert; a ranked row slides the
// rows between its old and new position by one in the opposite direction.
func PlanMove(oldKey *int, requested, maxKey int) ([]Shift, int) {
	if oldKey == nil {
		key := clamp(requested, 1, maxKey+1)
		if key == maxKey+1 {
			return nil, key
		}
		return []Shift{{From: key, To: 0, Delta: 1}}, key
	}

	old := *oldKey
	key := clamp(requested, 1, maxKey)

	switch {
	case key == old:
		return nil, key
	case key < old:
		return []Shift{{From: key, To: old - 1, Delta: 1}}, key
	default:
		return []Shift{{From: old + 1, To: key, Delta: -1}}, key
	}
}

// PlanClear plans removing a row's rank while keeping the row. Rows above the
// vacated rank close the gap.
func PlanClear(oldKey *int) []Shift {
	if oldKey == nil {
		return nil
	}
	return []Shift{{From: *oldKey + 1, To: 0, Delta: -1}}
}

// PlanRemove plans deleting a row outright. Same gap-closing as PlanClear.
func PlanRemove(key *int) []Shift {
	return PlanClear(key)
}

package master

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/awtadhr/payroll-backend-go/internal/domain/master/branch"
	"github.com/awtadhr/payroll-backend-go/internal/domain/master/designation"
	"github.com/awtadhr/payroll-backend-go/internal/domain/master/ordered"
	"github.com/awtadhr/payroll-backend-go/internal/domain/master/section"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/cache"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== FAKES ====================

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDesignationRepo struct {
	rows map[string]designation.Designation
	seq  int
}

func (f *fakeDesignationRepo) GetRow(_ context.Context, id string) (ordered.Row, error) {
	d, ok := f.rows[id]
	if !ok {
		return ordered.Row{}, designation.ErrDesignationNotFound
	}
	return ordered.Row{ID: d.ID, DisplayOrderKey: d.DisplayOrderKey}, nil
}

func (f *fakeDesignationRepo) MaxOrderKey(_ context.Context) (int, error) {
	max := 0
	for _, d := range f.rows {
		if d.DisplayOrderKey != nil && *d.DisplayOrderKey > max {
			max = *d.DisplayOrderKey
		}
	}
	return max, nil
}

func (f *fakeDesignationRepo) ShiftKeys(_ context.Context, from, to, delta int) error {
	for id, d := range f.rows {
		if d.DisplayOrderKey == nil {
			continue
		}
		key := *d.DisplayOrderKey
		if key >= from && (to == 0 || key <= to) {
			v := key + delta
			d.DisplayOrderKey = &v
			f.rows[id] = d
		}
	}
	return nil
}

func (f *fakeDesignationRepo) SetKey(_ context.Context, id string, key *int) error {
	d, ok := f.rows[id]
	if !ok {
		return designation.ErrDesignationNotFound
	}
	d.DisplayOrderKey = key
	f.rows[id] = d
	return nil
}

func (f *fakeDesignationRepo) Create(_ context.Context, d designation.Designation) (designation.Designation, error) {
	for _, existing := range f.rows {
		if existing.Name == d.Name {
			return designation.Designation{}, designation.ErrDesignationNameExists
		}
	}
	f.seq++
	d.ID = fmt.Sprintf("desig-%03d", f.seq)
	f.rows[d.ID] = d
	return d, nil
}

func (f *fakeDesignationRepo) GetByID(_ context.Context, id string) (designation.Designation, error) {
	d, ok := f.rows[id]
	if !ok {
		return designation.Designation{}, designation.ErrDesignationNotFound
	}
	return d, nil
}

func (f *fakeDesignationRepo) GetAll(_ context.Context) ([]designation.Designation, error) {
	var all []designation.Designation
	for _, d := range f.rows {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		ki, kj := all[i].DisplayOrderKey, all[j].DisplayOrderKey
		switch {
		case ki != nil && kj != nil:
			return *ki < *kj
		case ki != nil:
			return true
		case kj != nil:
			return false
		default:
			return all[i].Name < all[j].Name
		}
	})
	return all, nil
}

func (f *fakeDesignationRepo) UpdateName(_ context.Context, id, name string) error {
	d, ok := f.rows[id]
	if !ok {
		return designation.ErrDesignationNotFound
	}
	d.Name = name
	f.rows[id] = d
	return nil
}

func (f *fakeDesignationRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return designation.ErrDesignationNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeSectionRepo struct {
	rows map[string]section.PayrollSection
}

func (f *fakeSectionRepo) GetRow(_ context.Context, id string) (ordered.Row, error) {
	s, ok := f.rows[id]
	if !ok {
		return ordered.Row{}, section.ErrSectionNotFound
	}
	return ordered.Row{ID: s.ID, DisplayOrderKey: s.DisplayOrderKey}, nil
}

func (f *fakeSectionRepo) MaxOrderKey(_ context.Context) (int, error) { return 0, nil }

func (f *fakeSectionRepo) ShiftKeys(_ context.Context, _, _, _ int) error { return nil }

func (f *fakeSectionRepo) SetKey(_ context.Context, _ string, _ *int) error { return nil }

func (f *fakeSectionRepo) Create(_ context.Context, s section.PayrollSection) (section.PayrollSection, error) {
	s.ID = "sec-001"
	f.rows[s.ID] = s
	return s, nil
}

func (f *fakeSectionRepo) GetByID(_ context.Context, id string) (section.PayrollSection, error) {
	s, ok := f.rows[id]
	if !ok {
		return section.PayrollSection{}, section.ErrSectionNotFound
	}
	return s, nil
}

func (f *fakeSectionRepo) GetAll(_ context.Context) ([]section.PayrollSection, error) {
	var all []section.PayrollSection
	for _, s := range f.rows {
		all = append(all, s)
	}
	return all, nil
}

func (f *fakeSectionRepo) UpdateName(_ context.Context, _, _ string) error { return nil }

func (f *fakeSectionRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeBranchRepo struct {
	rows map[string]branch.Branch
	seq  int
}

func (f *fakeBranchRepo) Create(_ context.Context, b branch.Branch) (branch.Branch, error) {
	for _, existing := range f.rows {
		if existing.Name == b.Name {
			return branch.Branch{}, branch.ErrBranchNameExists
		}
	}
	f.seq++
	b.ID = fmt.Sprintf("branch-%03d", f.seq)
	f.rows[b.ID] = b
	return b, nil
}

func (f *fakeBranchRepo) GetByID(_ context.Context, id string) (branch.Branch, error) {
	b, ok := f.rows[id]
	if !ok {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return b, nil
}

func (f *fakeBranchRepo) GetAll(_ context.Context) ([]branch.Branch, error) {
	var all []branch.Branch
	for _, b := range f.rows {
		all = append(all, b)
	}
	return all, nil
}

func (f *fakeBranchRepo) Update(_ context.Context, req branch.UpdateBranchRequest) error {
	b, ok := f.rows[req.ID]
	if !ok {
		return branch.ErrBranchNotFound
	}
	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Address != nil {
		b.Address = req.Address
	}
	f.rows[req.ID] = b
	return nil
}

func (f *fakeBranchRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return branch.ErrBranchNotFound
	}
	delete(f.rows, id)
	return nil
}

// fakeCache is a map-backed cache.Cache recording hits and misses.
type fakeCache struct {
	store map[string][]byte
	gets  int
	hits  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	f.gets++
	raw, ok := f.store[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	f.hits++
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = raw
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.store, key)
	}
	return nil
}

// ==================== FIXTURE ====================

type fixture struct {
	svc          MasterService
	designations *fakeDesignationRepo
	cache        *fakeCache
	bus          *events.Bus
}

func newFixture() *fixture {
	designations := &fakeDesignationRepo{rows: make(map[string]designation.Designation)}
	sections := &fakeSectionRepo{rows: make(map[string]section.PayrollSection)}
	branches := &fakeBranchRepo{rows: make(map[string]branch.Branch)}
	c := newFakeCache()
	bus := events.NewBus()
	bus.Subscribe(CacheInvalidator(c))

	svc := NewMasterService(fakeTransactor{}, designations, sections, branches, c, time.Minute, bus)
	return &fixture{svc: svc, designations: designations, cache: c, bus: bus}
}

func (f *fixture) designationKeys(t *testing.T) map[string]*int {
	t.Helper()
	keys := make(map[string]*int)
	for id, d := range f.designations.rows {
		keys[d.Name+"/"+id] = d.DisplayOrderKey
	}
	return keys
}

func (f *fixture) assertDenseDesignations(t *testing.T) {
	t.Helper()
	var keys []int
	for _, d := range f.designations.rows {
		if d.DisplayOrderKey != nil {
			keys = append(keys, *d.DisplayOrderKey)
		}
	}
	sort.Ints(keys)
	for i, key := range keys {
		require.Equal(t, i+1, key, "ranked keys must be contiguous 1..N, got %v", keys)
	}
}

func (f *fixture) seedDesignations(t *testing.T, names ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		resp, err := f.svc.CreateDesignation(context.Background(), designation.CreateDesignationRequest{Name: name})
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}
	return ids
}

// ==================== TESTS ====================

func TestCreateDesignation(t *testing.T) {
	t.Run("appends when no rank requested", func(t *testing.T) {
		f := newFixture()

		first, err := f.svc.CreateDesignation(context.Background(), designation.CreateDesignationRequest{Name: "Driver"})
		require.NoError(t, err)
		second, err := f.svc.CreateDesignation(context.Background(), designation.CreateDesignationRequest{Name: "Supervisor"})
		require.NoError(t, err)

		assert.Equal(t, 1, *first.DisplayOrderKey)
		assert.Equal(t, 2, *second.DisplayOrderKey)
		f.assertDenseDesignations(t)
	})

	t.Run("inserting at an occupied rank shifts the tail", func(t *testing.T) {
		f := newFixture()
		f.seedDesignations(t, "Driver", "Supervisor", "Manager")

		rank := 2
		resp, err := f.svc.CreateDesignation(context.Background(), designation.CreateDesignationRequest{
			Name:            "Foreman",
			DisplayOrderKey: &rank,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, *resp.DisplayOrderKey)
		f.assertDenseDesignations(t)

		all, err := f.svc.ListDesignations(context.Background())
		require.NoError(t, err)
		names := make([]string, 0, len(all))
		for _, d := range all {
			names = append(names, d.Name)
		}
		assert.Equal(t, []string{"Driver", "Foreman", "Supervisor", "Manager"}, names)
	})

	t.Run("duplicate name", func(t *testing.T) {
		f := newFixture()
		f.seedDesignations(t, "Driver")

		_, err := f.svc.CreateDesignation(context.Background(), designation.CreateDesignationRequest{Name: "Driver"})
		assert.ErrorIs(t, err, designation.ErrDesignationNameExists)
	})
}

func TestUpdateDesignation(t *testing.T) {
	t.Run("moving down slides the passed rows up", func(t *testing.T) {
		f := newFixture()
		ids := f.seedDesignations(t, "A", "B", "C", "D")

		rank := 1
		require.NoError(t, f.svc.UpdateDesignation(context.Background(), designation.UpdateDesignationRequest{
			ID:              ids[3],
			DisplayOrderKey: &rank,
		}))

		f.assertDenseDesignations(t)
		all, _ := f.svc.ListDesignations(context.Background())
		assert.Equal(t, "D", all[0].Name)
		assert.Equal(t, "A", all[1].Name)
	})

	t.Run("moving up slides the passed rows down", func(t *testing.T) {
		f := newFixture()
		ids := f.seedDesignations(t, "A", "B", "C", "D")

		rank := 3
		require.NoError(t, f.svc.UpdateDesignation(context.Background(), designation.UpdateDesignationRequest{
			ID:              ids[0],
			DisplayOrderKey: &rank,
		}))

		f.assertDenseDesignations(t)
		all, _ := f.svc.ListDesignations(context.Background())
		assert.Equal(t, []string{"B", "C", "A", "D"}, []string{all[0].Name, all[1].Name, all[2].Name, all[3].Name})
	})

	t.Run("clearing the rank closes the gap and unranks the row", func(t *testing.T) {
		f := newFixture()
		ids := f.seedDesignations(t, "A", "B", "C")

		require.NoError(t, f.svc.UpdateDesignation(context.Background(), designation.UpdateDesignationRequest{
			ID:                ids[1],
			ClearDisplayOrder: true,
		}))

		f.assertDenseDesignations(t)
		b, err := f.svc.GetDesignation(context.Background(), ids[1])
		require.NoError(t, err)
		assert.Nil(t, b.DisplayOrderKey)

		all, _ := f.svc.ListDesignations(context.Background())
		assert.Equal(t, "B", all[len(all)-1].Name, "unranked rows list last")
	})

	t.Run("re-ranking a cleared row joins the list again", func(t *testing.T) {
		f := newFixture()
		ids := f.seedDesignations(t, "A", "B", "C")

		require.NoError(t, f.svc.UpdateDesignation(context.Background(), designation.UpdateDesignationRequest{
			ID:                ids[1],
			ClearDisplayOrder: true,
		}))

		rank := 1
		require.NoError(t, f.svc.UpdateDesignation(context.Background(), designation.UpdateDesignationRequest{
			ID:              ids[1],
			DisplayOrderKey: &rank,
		}))

		f.assertDenseDesignations(t)
		all, _ := f.svc.ListDesignations(context.Background())
		assert.Equal(t, "B", all[0].Name)
	})

	t.Run("rank and clear together are rejected", func(t *testing.T) {
		f := newFixture()
		ids := f.seedDesignations(t, "A")

		rank := 1
		err := f.svc.UpdateDesignation(context.Background(), designation.UpdateDesignationRequest{
			ID:                ids[0],
			DisplayOrderKey:   &rank,
			ClearDisplayOrder: true,
		})
		assert.Error(t, err)
	})

	t.Run("unknown designation", func(t *testing.T) {
		f := newFixture()

		name := "X"
		err := f.svc.UpdateDesignation(context.Background(), designation.UpdateDesignationRequest{
			ID:   "missing",
			Name: &name,
		})
		assert.ErrorIs(t, err, designation.ErrDesignationNotFound)
	})
}

func TestDeleteDesignation(t *testing.T) {
	t.Run("deleting a ranked row closes the gap", func(t *testing.T) {
		f := newFixture()
		ids := f.seedDesignations(t, "A", "B", "C")

		require.NoError(t, f.svc.DeleteDesignation(context.Background(), ids[1]))

		f.assertDenseDesignations(t)
		all, _ := f.svc.ListDesignations(context.Background())
		require.Len(t, all, 2)
		assert.Equal(t, 1, *all[0].DisplayOrderKey)
		assert.Equal(t, 2, *all[1].DisplayOrderKey)
	})

	t.Run("deleting an unranked row shifts nothing", func(t *testing.T) {
		f := newFixture()
		ids := f.seedDesignations(t, "A", "B")
		require.NoError(t, f.svc.UpdateDesignation(context.Background(), designation.UpdateDesignationRequest{
			ID:                ids[0],
			ClearDisplayOrder: true,
		}))
		before := f.designationKeys(t)

		require.NoError(t, f.svc.DeleteDesignation(context.Background(), ids[0]))

		after := f.designationKeys(t)
		for key, rank := range after {
			assert.Equal(t, before[key], rank)
		}
	})
}

func TestListDesignationsCaching(t *testing.T) {
	t.Run("second read is served from cache", func(t *testing.T) {
		f := newFixture()
		f.seedDesignations(t, "A", "B")

		_, err := f.svc.ListDesignations(context.Background())
		require.NoError(t, err)
		_, err = f.svc.ListDesignations(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, f.cache.hits)
	})

	t.Run("writes invalidate the cached list", func(t *testing.T) {
		f := newFixture()
		ids := f.seedDesignations(t, "A", "B")

		_, err := f.svc.ListDesignations(context.Background())
		require.NoError(t, err)

		name := "Renamed"
		require.NoError(t, f.svc.UpdateDesignation(context.Background(), designation.UpdateDesignationRequest{
			ID:   ids[0],
			Name: &name,
		}))

		all, err := f.svc.ListDesignations(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Renamed", all[0].Name, "stale cache would still say A")
	})
}

func TestBranchOperations(t *testing.T) {
	t.Run("create get update delete round trip", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()

		created, err := f.svc.CreateBranch(ctx, branch.CreateBranchRequest{Name: "Head Office"})
		require.NoError(t, err)

		got, err := f.svc.GetBranch(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Head Office", got.Name)

		addr := "12 Depot Road"
		require.NoError(t, f.svc.UpdateBranch(ctx, branch.UpdateBranchRequest{ID: created.ID, Address: &addr}))

		got, err = f.svc.GetBranch(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Address)
		assert.Equal(t, addr, *got.Address)

		require.NoError(t, f.svc.DeleteBranch(ctx, created.ID))
		_, err = f.svc.GetBranch(ctx, created.ID)
		assert.ErrorIs(t, err, branch.ErrBranchNotFound)
	})

	t.Run("duplicate name", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()

		_, err := f.svc.CreateBranch(ctx, branch.CreateBranchRequest{Name: "Head Office"})
		require.NoError(t, err)
		_, err = f.svc.CreateBranch(ctx, branch.CreateBranchRequest{Name: "Head Office"})
		assert.ErrorIs(t, err, branch.ErrBranchNameExists)
	})
}

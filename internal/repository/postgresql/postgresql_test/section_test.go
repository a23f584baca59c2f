package postgresql_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/awtadhr/payroll-backend-go/internal/domain/master/section"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/database"
	"github.com/awtadhr/payroll-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

func init() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return
	}

	var err error
	testDB, err = database.NewPostgreSQLDB(dsn)
	if err != nil {
		panic("Failed to connect to test database: " + err.Error())
	}
}

func requireDB(t *testing.T) {
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
}

func setupTestData(t *testing.T) {
	ctx := context.Background()
	_, err := testDB.Exec(ctx, "TRUNCATE TABLE payroll_sections CASCADE")
	require.NoError(t, err)
}

func intPtr(v int) *int {
	return &v
}

func seedSections(t *testing.T, repo section.SectionRepository, names ...string) []section.PayrollSection {
	ctx := context.Background()
	out := make([]section.PayrollSection, 0, len(names))
	for i, name := range names {
		s, err := repo.Create(ctx, section.PayrollSection{
			Name:            name,
			DisplayOrderKey: intPtr(i + 1),
		})
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestSectionCreateAndGet(t *testing.T) {
	requireDB(t)
	setupTestData(t)

	repo := postgresql.NewSectionRepository(testDB)
	ctx := context.Background()

	created, err := repo.Create(ctx, section.PayrollSection{Name: "Transport", DisplayOrderKey: intPtr(1)})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Transport", created.Name)
	require.NotNil(t, created.DisplayOrderKey)
	assert.Equal(t, 1, *created.DisplayOrderKey)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.Create(ctx, section.PayrollSection{Name: "Transport", DisplayOrderKey: intPtr(2)})
	assert.ErrorIs(t, err, section.ErrSectionNameExists)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, section.ErrSectionNotFound)
}

func TestSectionGetAllOrdering(t *testing.T) {
	requireDB(t)
	setupTestData(t)

	repo := postgresql.NewSectionRepository(testDB)
	ctx := context.Background()

	seedSections(t, repo, "Workshop", "Transport", "Office")
	unranked, err := repo.Create(ctx, section.PayrollSection{Name: "Archive"})
	require.NoError(t, err)
	assert.Nil(t, unranked.DisplayOrderKey)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	// Ranked rows first in key order, unranked rows after them.
	assert.Equal(t, "Workshop", all[0].Name)
	assert.Equal(t, "Transport", all[1].Name)
	assert.Equal(t, "Office", all[2].Name)
	assert.Equal(t, "Archive", all[3].Name)
}

func TestSectionShiftKeys(t *testing.T) {
	requireDB(t)
	setupTestData(t)

	repo := postgresql.NewSectionRepository(testDB)
	ctx := context.Background()

	rows := seedSections(t, repo, "Workshop", "Transport", "Office")

	// Open a slot at rank 2: shift [2..3] up by one, then take the slot.
	err := repo.ShiftKeys(ctx, 2, 3, 1)
	require.NoError(t, err)

	fresh, err := repo.Create(ctx, section.PayrollSection{Name: "Security", DisplayOrderKey: intPtr(2)})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Workshop", all[0].Name)
	assert.Equal(t, "Security", all[1].Name)
	assert.Equal(t, "Transport", all[2].Name)
	assert.Equal(t, "Office", all[3].Name)

	// Remove the fresh row and close the gap with an unbounded shift.
	require.NoError(t, repo.Delete(ctx, fresh.ID))
	require.NoError(t, repo.ShiftKeys(ctx, 3, 0, -1))

	max, err := repo.MaxOrderKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, max)

	row, err := repo.GetRow(ctx, rows[2].ID)
	require.NoError(t, err)
	require.NotNil(t, row.DisplayOrderKey)
	assert.Equal(t, 3, *row.DisplayOrderKey)
}

func TestSectionSetKey(t *testing.T) {
	requireDB(t)
	setupTestData(t)

	repo := postgresql.NewSectionRepository(testDB)
	ctx := context.Background()

	rows := seedSections(t, repo, "Workshop", "Transport")

	require.NoError(t, repo.SetKey(ctx, rows[1].ID, nil))

	row, err := repo.GetRow(ctx, rows[1].ID)
	require.NoError(t, err)
	assert.Nil(t, row.DisplayOrderKey)

	err = repo.SetKey(ctx, "00000000-0000-0000-0000-000000000000", intPtr(5))
	assert.True(t, errors.Is(err, section.ErrSectionNotFound))
}

func TestSectionUpdateNameAndDelete(t *testing.T) {
	requireDB(t)
	setupTestData(t)

	repo := postgresql.NewSectionRepository(testDB)
	ctx := context.Background()

	rows := seedSections(t, repo, "Workshop", "Transport")

	require.NoError(t, repo.UpdateName(ctx, rows[0].ID, "Main Workshop"))
	err := repo.UpdateName(ctx, rows[0].ID, "Transport")
	assert.ErrorIs(t, err, section.ErrSectionNameExists)

	require.NoError(t, repo.Delete(ctx, rows[1].ID))
	err = repo.Delete(ctx, rows[1].ID)
	assert.ErrorIs(t, err, section.ErrSectionNotFound)
}

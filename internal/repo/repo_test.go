package repo

import (
	"context"
	"testing"

	"Mudcheck/internal/calc/treatment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	r := NewSQLiteCalibrationDB(db)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func rig(name string, divisor float64) treatment.Calibration {
	c := treatment.DefaultCalibration()
	c.Name = name
	c.Source = "rig chart"
	c.ExcessCalciumDivisor = divisor
	return c
}

func TestSQLRepository_SaveGetList(t *testing.T) {
	ctx := context.Background()
	r := newSQLite(t)

	require.NoError(t, r.Save(ctx, rig("rig-9", 1000)))
	require.NoError(t, r.Save(ctx, rig("rig-2", 1040)))
	require.NoError(t, r.Save(ctx, rig("rig-9", 1010)))

	got, err := r.Get(ctx, "rig-9")
	require.NoError(t, err)
	assert.Equal(t, rig("rig-9", 1010), got)

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "rig-2", all[0].Name)
	assert.Equal(t, "rig-9", all[1].Name)
}

func TestSQLRepository_GetMissing(t *testing.T) {
	r := newSQLite(t)
	_, err := r.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLRepository_SaveRejectsInvalid(t *testing.T) {
	r := newSQLite(t)
	err := r.Save(context.Background(), rig("bad", 0))
	assert.Error(t, err)
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepository()
	require.NoError(t, Seed(ctx, m, []treatment.Calibration{rig("b", 1000), rig("a", 1065)}))

	all, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)

	_, err = m.Get(ctx, "c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepository()
	require.NoError(t, m.Save(ctx, rig("rig-9", 1000)))
	res := &Resolver{Repo: m}

	cal, err := res.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, treatment.DefaultCalibration(), cal)

	cal, err = res.Resolve(ctx, "rig-9")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, cal.ExcessCalciumDivisor)

	_, err = res.Resolve(ctx, "rig-1")
	assert.ErrorIs(t, err, ErrNotFound)

	override := rig("default", 1000)
	require.NoError(t, m.Save(ctx, override))
	cal, err = res.Resolve(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, override, cal)
}

func TestResolver_NoRepo(t *testing.T) {
	cal, err := (&Resolver{}).Resolve(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "default", cal.Name)
}

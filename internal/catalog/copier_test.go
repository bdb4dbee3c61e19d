package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/wine-investment-service/internal/models"
)

type fakeDB struct {
	rows     map[int]*models.CatalogWine
	order    []int
	pages    int
	resets   int
	listErr  error
	insertFn func(w *models.CatalogWine) error
}

func newFakeDB(ids ...int) *fakeDB {
	db := &fakeDB{rows: map[int]*models.CatalogWine{}}
	for _, id := range ids {
		name := "wine"
		db.insert(&models.CatalogWine{ID: id, Name: &name})
	}
	return db
}

func (f *fakeDB) insert(w *models.CatalogWine) bool {
	if _, ok := f.rows[w.ID]; ok {
		return false
	}
	f.rows[w.ID] = w
	f.order = append(f.order, w.ID)
	return true
}

func (f *fakeDB) CountWines(ctx context.Context) (int, error) {
	return len(f.rows), nil
}

func (f *fakeDB) ListCatalogWines(ctx context.Context, afterID, limit int) ([]*models.CatalogWine, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.pages++
	var out []*models.CatalogWine
	for _, id := range f.order {
		if id > afterID && len(out) < limit {
			out = append(out, f.rows[id])
		}
	}
	return out, nil
}

func (f *fakeDB) InsertCatalogWine(ctx context.Context, w *models.CatalogWine) (bool, error) {
	if f.insertFn != nil {
		if err := f.insertFn(w); err != nil {
			return false, err
		}
	}
	return f.insert(w), nil
}

func (f *fakeDB) ResetWineSequence(ctx context.Context) error {
	f.resets++
	return nil
}

func ids(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestCopyAllRows(t *testing.T) {
	source := newFakeDB(ids(250)...)
	target := newFakeDB()

	summary, err := NewCopier(source, target, 0, nil).Copy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 250, summary.SourceCount)
	assert.Equal(t, 250, summary.TargetCount)
	assert.Equal(t, 250, summary.Inserted)
	assert.Zero(t, summary.Existing)
	assert.Equal(t, 3, source.pages)
	assert.Equal(t, 1, target.resets)
	assert.Equal(t, source.order, target.order)
}

func TestCopySkipsExistingIDs(t *testing.T) {
	source := newFakeDB(ids(10)...)
	target := newFakeDB(2, 4, 6)
	original := target.rows[2]

	summary, err := NewCopier(source, target, 4, nil).Copy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, summary.Inserted)
	assert.Equal(t, 3, summary.Existing)
	assert.Equal(t, 10, summary.TargetCount)
	assert.Same(t, original, target.rows[2])
}

func TestCopyEmptySource(t *testing.T) {
	source := newFakeDB()
	target := newFakeDB()

	summary, err := NewCopier(source, target, 100, nil).Copy(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Inserted)
	assert.Equal(t, 1, source.pages)
	assert.Equal(t, 1, target.resets)
}

func TestCopyStopsOnInsertError(t *testing.T) {
	source := newFakeDB(ids(5)...)
	target := newFakeDB()
	target.insertFn = func(w *models.CatalogWine) error {
		if w.ID == 3 {
			return errors.New("failed to insert wine 3: value too long")
		}
		return nil
	}

	summary, err := NewCopier(source, target, 100, nil).Copy(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Zero(t, target.resets)
}

func TestCopyReportsReadErrors(t *testing.T) {
	source := newFakeDB(1)
	source.listErr = errors.New("connection refused")

	_, err := NewCopier(source, newFakeDB(), 100, nil).Copy(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read source wines")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 100.0, percent(0, 0))
	assert.Equal(t, 33.3, percent(1, 3))
	assert.Equal(t, 100.0, percent(10, 10))
}

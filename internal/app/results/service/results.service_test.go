package results_service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/init-pkg/sheet-relay/domain/app"
	"github.com/init-pkg/sheet-relay/domain/apperr"
	"github.com/init-pkg/sheet-relay/domain/rows"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type repoMock struct{ mock.Mock }

func (m *repoMock) FetchAll(ctx context.Context) (*app.RecordSet, error) {
	args := m.Called(ctx)
	set, _ := args.Get(0).(*app.RecordSet)
	return set, args.Error(1)
}

type memoryCache struct {
	set     *app.RecordSet
	deletes int
}

func (c *memoryCache) Get(ctx context.Context) (*app.RecordSet, bool) {
	return c.set, c.set != nil
}

func (c *memoryCache) Set(ctx context.Context, set *app.RecordSet) {
	c.set = set
}

func (c *memoryCache) Delete(ctx context.Context) error {
	c.set = nil
	c.deletes++
	return nil
}

func sampleSet() *app.RecordSet {
	return &app.RecordSet{
		Columns: []string{"id", "webhook", "file_name", "file_size"},
		Records: []app.Record{
			{"id": "a", "webhook": "prices", "file_name": "Prices.csv", "file_size": int64(120)},
			{"id": "b", "webhook": "catalog", "file_name": "catalog.xlsx", "file_size": int64(9)},
			{"id": "c", "webhook": "prices", "file_name": "prices-old.csv", "file_size": nil},
			{"id": "d", "webhook": "stock", "file_name": "stock.xlsx", "file_size": 45.5},
		},
	}
}

func newService(set *app.RecordSet) (*ResultsService, *repoMock, *memoryCache) {
	repo := &repoMock{}
	repo.On("FetchAll", mock.Anything).Return(set, nil)
	cache := &memoryCache{}
	return New(repo, cache, slog.New(slog.NewTextHandler(io.Discard, nil))), repo, cache
}

func ids(records []app.Record) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r["id"]
	}
	return out
}

func TestFetch_UsesCache(t *testing.T) {
	svc, repo, cache := newService(sampleSet())
	ctx := context.Background()

	_, err := svc.Fetch(ctx)
	require.NoError(t, err)
	_, err = svc.Fetch(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FetchAll", 1)

	require.NoError(t, svc.Invalidate(ctx))
	assert.Equal(t, 1, cache.deletes)

	_, err = svc.Fetch(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FetchAll", 2)
}

func TestFetch_DatabaseFailure(t *testing.T) {
	repo := &repoMock{}
	repo.On("FetchAll", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))
	svc := New(repo, &memoryCache{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Fetch(context.Background())
	assert.Equal(t, apperr.KindConnectivity, apperr.KindOf(err))
}

func TestSelect_SearchIgnoresCaseAndHiddenColumns(t *testing.T) {
	svc, _, _ := newService(sampleSet())

	set, err := svc.Select(context.Background(), app.ResultsQuery{Search: "PRICES"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, ids(set.Records))

	set, err = svc.Select(context.Background(), app.ResultsQuery{Search: "prices", Columns: []string{"id", "file_name"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, ids(set.Records))
	assert.Equal(t, app.Record{"id": "a", "file_name": "Prices.csv"}, set.Records[0])

	set, err = svc.Select(context.Background(), app.ResultsQuery{Search: "prices", Columns: []string{"id", "file_size"}})
	require.NoError(t, err)
	assert.Empty(t, set.Records)
	assert.NotNil(t, set.Records)
}

func TestSelect_Sort(t *testing.T) {
	svc, _, _ := newService(sampleSet())

	set, err := svc.Select(context.Background(), app.ResultsQuery{SortBy: "file_size"})
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "d", "a", "c"}, ids(set.Records))

	set, err = svc.Select(context.Background(), app.ResultsQuery{SortBy: "file_size", Order: app.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "d", "b", "c"}, ids(set.Records))

	set, err = svc.Select(context.Background(), app.ResultsQuery{SortBy: "webhook"})
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "a", "c", "d"}, ids(set.Records))
}

func TestSelect_DoesNotReorderCachedSet(t *testing.T) {
	svc, _, cache := newService(sampleSet())

	_, err := svc.Select(context.Background(), app.ResultsQuery{SortBy: "id", Order: app.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c", "d"}, ids(cache.set.Records))
}

func TestSelect_RejectsUnknownColumns(t *testing.T) {
	svc, _, _ := newService(sampleSet())

	_, err := svc.Select(context.Background(), app.ResultsQuery{Columns: []string{"id", "secret"}})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.Select(context.Background(), app.ResultsQuery{SortBy: "secret"})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestPage(t *testing.T) {
	svc, _, _ := newService(sampleSet())

	page, err := svc.Page(context.Background(), app.ResultsQuery{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, []any{"d"}, ids(page.Records))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	page, err = svc.Page(context.Background(), app.ResultsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Len(t, page.Records, 4)

	page, err = svc.Page(context.Background(), app.ResultsQuery{Page: 9, PageSize: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Equal(t, 2, page.TotalPages)
}

func TestPage_FarPastTheEnd(t *testing.T) {
	svc, _, _ := newService(sampleSet())

	for _, q := range []app.ResultsQuery{
		{Page: 4611686018427387905, PageSize: 2},
		{Page: int(^uint(0) >> 1), PageSize: MaxPageSize},
		{Page: 3, PageSize: 2},
	} {
		page, err := svc.Page(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, page.Records)
		assert.NotNil(t, page.Records)
		assert.Equal(t, 4, page.Total)
		assert.Equal(t, q.Page, page.Page)
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		page, size, total int
		from, to          int
	}{
		{1, 25, 0, 0, 0},
		{1, 2, 5, 0, 2},
		{3, 2, 5, 4, 5},
		{4, 2, 5, 5, 5},
		{4611686018427387905, 2, 5, 5, 5},
	}

	for _, tt := range tests {
		from, to := pageBounds(tt.page, tt.size, tt.total)
		assert.Equal(t, tt.from, from, "page %d size %d", tt.page, tt.size)
		assert.Equal(t, tt.to, to, "page %d size %d", tt.page, tt.size)
	}
}

func TestPage_EmptySetHasOnePage(t *testing.T) {
	svc, _, _ := newService(&app.RecordSet{Columns: []string{"id"}, Records: []app.Record{}})

	page, err := svc.Page(context.Background(), app.ResultsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestPage_InvalidBounds(t *testing.T) {
	svc, _, _ := newService(sampleSet())

	for _, q := range []app.ResultsQuery{{Page: -1}, {PageSize: -5}, {PageSize: MaxPageSize + 1}} {
		_, err := svc.Page(context.Background(), q)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	}
}

func TestToRows(t *testing.T) {
	set := &app.RecordSet{
		Columns: []string{"b", "a"},
		Records: []app.Record{{"a": int64(1), "b": "x"}, {"a": nil}},
	}

	assert.Equal(t, []rows.Row{{"x", int64(1)}, {nil, nil}}, ToRows(set))
}

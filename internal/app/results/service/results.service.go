package results_service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/init-pkg/sheet-relay/domain/app"
	"github.com/init-pkg/sheet-relay/domain/apperr"
	"github.com/init-pkg/sheet-relay/domain/rows"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 500
)

type Repository interface {
	FetchAll(ctx context.Context) (*app.RecordSet, error)
}

type Cache interface {
	Get(ctx context.Context) (*app.RecordSet, bool)
	Set(ctx context.Context, set *app.RecordSet)
	Delete(ctx context.Context) error
}

type ResultsService struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

var _ app.ResultsService = &ResultsService{}

func New(repo Repository, cache Cache, log *slog.Logger) *ResultsService {
	return &ResultsService{repo, cache, log}
}

func (this *ResultsService) Fetch(ctx context.Context) (*app.RecordSet, error) {
	if set, ok := this.cache.Get(ctx); ok {
		return set, nil
	}

	set, err := this.repo.FetchAll(ctx)
	if err != nil {
		this.log.Error("results query failed", "error", err)
		return nil, apperr.Wrap(err, apperr.KindConnectivity, "results database is unavailable")
	}

	this.log.Info("results fetched", "columns", len(set.Columns), "records", len(set.Records))
	this.cache.Set(ctx, set)
	return set, nil
}

func (this *ResultsService) Invalidate(ctx context.Context) error {
	return this.cache.Delete(ctx)
}

func (this *ResultsService) Select(ctx context.Context, q app.ResultsQuery) (*app.RecordSet, error) {
	set, err := this.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	visible, err := visibleColumns(set.Columns, q.Columns)
	if err != nil {
		return nil, err
	}
	if q.SortBy != "" && !slices.Contains(set.Columns, q.SortBy) {
		return nil, apperr.New(apperr.KindInvalidInput, fmt.Sprintf("unknown sort column %q", q.SortBy))
	}

	matched := search(set.Records, visible, q.Search)
	if q.SortBy != "" {
		sortRecords(matched, q.SortBy, q.Order)
	}

	out := &app.RecordSet{Columns: visible, Records: make([]app.Record, 0, len(matched))}
	for _, rec := range matched {
		out.Records = append(out.Records, project(rec, visible))
	}
	return out, nil
}

func (this *ResultsService) Page(ctx context.Context, q app.ResultsQuery) (*app.ResultsPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 1 {
		return nil, apperr.New(apperr.KindInvalidInput, "page must be at least 1")
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return nil, apperr.New(apperr.KindInvalidInput, fmt.Sprintf("page size must be between 1 and %d", MaxPageSize))
	}

	set, err := this.Select(ctx, q)
	if err != nil {
		return nil, err
	}

	total := len(set.Records)
	from, to := pageBounds(q.Page, q.PageSize, total)

	return &app.ResultsPage{
		Columns:    set.Columns,
		Records:    set.Records[from:to],
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: max(1, (total+q.PageSize-1)/q.PageSize),
	}, nil
}

// pageBounds returns the slice bounds of a 1-based page without overflowing
// for pages far past the end.
func pageBounds(page, size, total int) (int, int) {
	if page-1 > total/size {
		return total, total
	}
	from := min((page-1)*size, total)
	return from, min(from+size, total)
}

// ToRows lays records out as rows in column order.
func ToRows(set *app.RecordSet) []rows.Row {
	out := make([]rows.Row, len(set.Records))
	for i, rec := range set.Records {
		r := make(rows.Row, len(set.Columns))
		for j, col := range set.Columns {
			r[j] = rec[col]
		}
		out[i] = r
	}
	return out
}

func visibleColumns(all, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return all, nil
	}

	out := make([]string, 0, len(requested))
	for _, col := range requested {
		if !slices.Contains(all, col) {
			return nil, apperr.New(apperr.KindInvalidInput, fmt.Sprintf("unknown column %q", col))
		}
		if !slices.Contains(out, col) {
			out = append(out, col)
		}
	}
	return out, nil
}

// search keeps records where any visible column contains needle, ignoring case.
func search(records []app.Record, columns []string, needle string) []app.Record {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return slices.Clone(records)
	}

	out := make([]app.Record, 0)
	for _, rec := range records {
		for _, col := range columns {
			if strings.Contains(strings.ToLower(rows.String(rec[col])), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

func sortRecords(records []app.Record, column string, order app.SortOrder) {
	desc := order == app.SortDesc
	slices.SortStableFunc(records, func(a, b app.Record) int {
		va, vb := a[column], b[column]
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return 1
		case vb == nil:
			return -1
		}
		c := compare(va, vb)
		if desc {
			return -c
		}
		return c
	})
}

func compare(a, b any) int {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	switch {
	case aNum && bNum:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(rows.String(a), rows.String(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func project(rec app.Record, columns []string) app.Record {
	out := make(app.Record, len(columns))
	for _, col := range columns {
		out[col] = rec[col]
	}
	return out
}

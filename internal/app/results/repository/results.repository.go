package results_repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/init-pkg/sheet-relay/domain/app"
	"github.com/init-pkg/sheet-relay/internal/config"
	"gorm.io/gorm"
)

type ResultsRepository struct {
	db    *gorm.DB
	query string
}

func New(cfg *config.Config, db *gorm.DB) *ResultsRepository {
	return &ResultsRepository{db, cfg.Results.Query}
}

// FetchAll runs the configured query and returns every row it produces.
func (this *ResultsRepository) FetchAll(ctx context.Context) (*app.RecordSet, error) {
	rs, err := this.db.WithContext(ctx).Raw(this.query).Rows()
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	return ScanRecords(rs)
}

// ScanRecords reads rs to the end keeping the column order of the query.
func ScanRecords(rs *sql.Rows) (*app.RecordSet, error) {
	columns, err := rs.Columns()
	if err != nil {
		return nil, err
	}

	set := &app.RecordSet{Columns: columns, Records: []app.Record{}}
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rs.Next() {
		if err := rs.Scan(dest...); err != nil {
			return nil, err
		}
		rec := make(app.Record, len(columns))
		for i, col := range columns {
			rec[col] = normalize(values[i])
		}
		set.Records = append(set.Records, rec)
	}
	return set, rs.Err()
}

func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

package store

import (
	"context"
	"fmt"
	"time"

	"ladangwatch/internal/policy"
	"ladangwatch/internal/utils"
	"ladangwatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reportTableName = "ladangwatch.security_reports"

var reportColumns = utils.StructTagValues(types.Report{})

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create validates and inserts the report, assigning the server-side ID
// and timestamps. Reports are append-only; no update or delete exists.
func (r *ReportRepository) Create(ctx context.Context, report *types.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	now := time.Now()
	report.ID = utils.NanoID()
	report.CreatedAt = now
	report.UpdatedAt = now

	if report.Photos == nil {
		report.Photos = []string{}
	}

	query, args, err := psql().
		Insert(reportTableName).
		SetMap(utils.StructToMap(report)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create report query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return types.NewTransportError(err, "failed to create report")
	}

	return nil
}

// Reports returns rows newest-created-first, confined to the given
// visibility scope so under-scoped rows never leave the database.
func (r *ReportRepository) Reports(ctx context.Context, scope policy.Scope) ([]*types.Report, error) {
	builder := psql().
		Select(reportColumns...).
		From(reportTableName).
		OrderBy("created_at DESC")

	if scope.Scoped {
		builder = builder.Where(sq.Eq{"region": scope.Region})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reports query: %w", err)
	}

	var reports []*types.Report
	err = pgxscan.Select(ctx, r.pool, &reports, query, args...)
	if err != nil {
		return nil, types.NewTransportError(err, "failed to fetch reports")
	}

	return reports, nil
}

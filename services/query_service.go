package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kendall-kelly/repair-desk-api/utils"
	"gorm.io/gorm"
)

// QueryResult is the outcome of a raw statement
type QueryResult struct {
	Rows     []Row `json:"rows"`
	RowCount int64 `json:"rowCount"`
}

// QueryService executes caller-supplied SQL. It has no statement allow-list:
// mount it only where administrators can reach it.
type QueryService struct {
	db *gorm.DB
}

// NewQueryService creates a query service over db. A nil db makes every
// call fail with a configuration error.
func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

// IsReadStatement reports whether a statement yields rows: it starts with
// SELECT or has a RETURNING clause
func IsReadStatement(statement string) bool {
	upper := strings.ToUpper(strings.TrimSpace(statement))
	return strings.HasPrefix(upper, "SELECT") || strings.Contains(upper, "RETURNING")
}

// Execute runs statement with params bound positionally by the driver.
// Row-producing statements return their rows; others return the number of
// affected rows. Both are committed.
func (s *QueryService) Execute(ctx context.Context, statement string, params []any) (*QueryResult, error) {
	if strings.TrimSpace(statement) == "" {
		return nil, utils.BadRequest("SQL query is required")
	}
	if s == nil || s.db == nil {
		return nil, utils.ErrConfiguration
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result := &QueryResult{Rows: []Row{}}
	if IsReadStatement(statement) {
		rows, err := tx.QueryContext(ctx, statement, params...)
		if err != nil {
			return nil, err
		}
		if result.Rows, err = ScanRows(rows); err != nil {
			return nil, err
		}
		result.RowCount = int64(len(result.Rows))
	} else {
		res, err := tx.ExecContext(ctx, statement, params...)
		if err != nil {
			return nil, err
		}
		if result.RowCount, err = res.RowsAffected(); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

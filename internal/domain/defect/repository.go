package defect

import (
	"context"

	"github.com/skute123/genai-defect-management/internal/domain/shared"
)

// SearchColumn identifies a text column that keyword search may target
type SearchColumn string

const (
	ColumnSummary        SearchColumn = "summary"
	ColumnDescription    SearchColumn = "description"
	ColumnFixDescription SearchColumn = "fix_description"
	ColumnComment        SearchColumn = "comment"
)

// SearchableColumns lists the columns keyword search accepts
func SearchableColumns() []SearchColumn {
	return []SearchColumn{ColumnSummary, ColumnDescription, ColumnFixDescription, ColumnComment}
}

// ParseSearchColumn validates a user-supplied column name
func ParseSearchColumn(s string) (SearchColumn, error) {
	for _, c := range SearchableColumns() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", shared.NewDomainErrorf("INVALID_SEARCH_COLUMN", "unknown search column %q", s)
}

// Distribution is one bucket of a categorical breakdown
type Distribution struct {
	Label      string
	Count      int64
	Percentage float64
}

// ImportResult reports the outcome of a bulk load
type ImportResult struct {
	Inserted int64
	Skipped  int64
	Total    int64
}

// Repository is the persistence port for defects. All reads and writes
// are scoped to a single environment table.
type Repository interface {
	FindByIssueKey(ctx context.Context, env Environment, issueKey string) (*Defect, error)
	FindAll(ctx context.Context, env Environment, filter shared.Filter) ([]Defect, int64, error)
	SearchKeyword(ctx context.Context, env Environment, columns []SearchColumn, term string, filter shared.Filter) ([]Defect, int64, error)
	CountByOSFSystem(ctx context.Context, env Environment) ([]Distribution, error)
	CountByVendorApplication(ctx context.Context, env Environment) ([]Distribution, error)
	SaveIgnoreDuplicates(ctx context.Context, env Environment, defects []Defect) (*ImportResult, error)
	Count(ctx context.Context, env Environment) (int64, error)
	FindAllForIndexing(ctx context.Context, env Environment) ([]Defect, error)
}

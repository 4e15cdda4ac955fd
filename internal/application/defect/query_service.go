package defect

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/domain/defect"
	"github.com/skute123/genai-defect-management/internal/domain/shared"
)

// QueryService answers read queries over the defect tables
type QueryService struct {
	repo   defect.Repository
	logger *zap.Logger
}

// NewQueryService creates the query service
func NewQueryService(repo defect.Repository, logger *zap.Logger) *QueryService {
	return &QueryService{repo: repo, logger: logger}
}

// ListDefects returns a page of defects for one environment
func (s *QueryService) ListDefects(ctx context.Context, env string, filter shared.Filter) (shared.Paginated[DefectDTO], error) {
	var empty shared.Paginated[DefectDTO]

	environment, err := defect.ParseEnvironment(env)
	if err != nil {
		return empty, err
	}

	defects, total, err := s.repo.FindAll(ctx, environment, filter)
	if err != nil {
		return empty, err
	}
	return shared.NewPaginated(toDTOSlice(defects), total, filter), nil
}

// SearchByIssueKey looks up a defect by its exact key, checking every
// environment. The ACC table is checked first.
func (s *QueryService) SearchByIssueKey(ctx context.Context, issueKey string) (*IssueKeyResultDTO, error) {
	key := defect.NormalizeIssueKey(issueKey)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_ISSUE_KEY", "issue key is required")
	}

	for _, env := range defect.Environments() {
		d, err := s.repo.FindByIssueKey(ctx, env, key)
		if err != nil {
			if shared.IsNotFound(err) {
				continue
			}
			return nil, err
		}

		result := &IssueKeyResultDTO{Defect: ToDefectDTO(d)}
		for _, entry := range d.CommentTimeline() {
			result.Timeline = append(result.Timeline, TimelineEntryDTO{
				Timestamp: entry.Timestamp,
				Text:      entry.Text,
			})
		}
		return result, nil
	}
	return nil, shared.ErrNotFound
}

// SearchByKeyword runs a case-insensitive contains search over the
// selected columns. Empty columns means all searchable columns.
func (s *QueryService) SearchByKeyword(ctx context.Context, env, term string, columns []string, filter shared.Filter) (shared.Paginated[DefectDTO], error) {
	var empty shared.Paginated[DefectDTO]

	environment, err := defect.ParseEnvironment(env)
	if err != nil {
		return empty, err
	}
	if strings.TrimSpace(term) == "" {
		return empty, shared.NewDomainError("INVALID_SEARCH_TERM", "search term is required")
	}

	cols, err := parseColumns(columns)
	if err != nil {
		return empty, err
	}

	defects, total, err := s.repo.SearchKeyword(ctx, environment, cols, strings.TrimSpace(term), filter)
	if err != nil {
		return empty, err
	}
	return shared.NewPaginated(toDTOSlice(defects), total, filter), nil
}

// exportHeaders is the column order of the CSV export
var exportHeaders = []string{
	"Issue key", "Summary", "Priority", "Resolution", "Fix Version/s",
	"Description", "Fix Description", "OSF-Stack", "OSF-System",
	"Vendor + Application", "Comment",
}

// ExportCSV streams all keyword matches as CSV to w
func (s *QueryService) ExportCSV(ctx context.Context, env, term string, columns []string, w io.Writer) error {
	environment, err := defect.ParseEnvironment(env)
	if err != nil {
		return err
	}
	if strings.TrimSpace(term) == "" {
		return shared.NewDomainError("INVALID_SEARCH_TERM", "search term is required")
	}
	cols, err := parseColumns(columns)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	filter := shared.Filter{Page: 1, PageSize: 500}
	for {
		defects, total, err := s.repo.SearchKeyword(ctx, environment, cols, strings.TrimSpace(term), filter)
		if err != nil {
			return err
		}
		for _, d := range defects {
			record := []string{
				d.IssueKey, d.Summary, d.Priority, d.Resolution, d.FixVersions,
				d.Description, d.FixDescription, d.OSFStack, d.OSFSystem,
				d.VendorApplication, d.Comment,
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write export row: %w", err)
			}
		}
		if int64(filter.Page*filter.PageSize) >= total || len(defects) == 0 {
			break
		}
		filter.Page++
	}

	writer.Flush()
	return writer.Error()
}

func parseColumns(columns []string) ([]defect.SearchColumn, error) {
	if len(columns) == 0 {
		return defect.SearchableColumns(), nil
	}
	cols := make([]defect.SearchColumn, 0, len(columns))
	for _, c := range columns {
		col, err := defect.ParseSearchColumn(strings.TrimSpace(c))
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func toDTOSlice(defects []defect.Defect) []DefectDTO {
	dtos := make([]DefectDTO, len(defects))
	for i := range defects {
		dtos[i] = ToDefectDTO(&defects[i])
	}
	return dtos
}

package importing

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/domain/defect"
	csvimport "github.com/skute123/genai-defect-management/internal/infrastructure/importing"
)

// ImportReportDTO summarizes one import run
type ImportReportDTO struct {
	Inserted int64 `json:"inserted"`
	Skipped  int64 `json:"skipped"`
	Total    int64 `json:"total"`
	Rejected int   `json:"rejected"` // rows without an issue key
}

// ImportService loads tracker and TTWOS exports into the defect tables
type ImportService struct {
	repo   defect.Repository
	logger *zap.Logger
}

// NewImportService creates the import service
func NewImportService(repo defect.Repository, logger *zap.Logger) *ImportService {
	return &ImportService{repo: repo, logger: logger}
}

// ImportJiraCSV loads a tracker CSV export into one environment.
// Existing issue keys are kept, not overwritten.
func (s *ImportService) ImportJiraCSV(ctx context.Context, env string, r io.Reader) (*ImportReportDTO, error) {
	environment, err := defect.ParseEnvironment(env)
	if err != nil {
		return nil, err
	}

	parser, err := csvimport.NewCSVReader(r)
	if err != nil {
		return nil, err
	}
	if err := csvimport.ValidateRequired(parser.HasHeader); err != nil {
		return nil, err
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}

	defects, rejected := s.mapRows(rows, environment)
	return s.persist(ctx, environment, defects, rejected)
}

// ImportTTWOSXLSX loads a TTWOS spreadsheet extract, translating its
// German headers first
func (s *ImportService) ImportTTWOSXLSX(ctx context.Context, env string, r io.Reader) (*ImportReportDTO, error) {
	environment, err := defect.ParseEnvironment(env)
	if err != nil {
		return nil, err
	}

	reader, err := csvimport.NewXLSXReader(r)
	if err != nil {
		return nil, err
	}
	if err := csvimport.ValidateRequired(reader.HasHeader); err != nil {
		return nil, err
	}

	defects, rejected := s.mapRows(reader.ReadAllRows(), environment)
	return s.persist(ctx, environment, defects, rejected)
}

// MergeAndImport combines a tracker CSV and a TTWOS extract. On a
// duplicate issue key the tracker row wins, it carries richer fields.
func (s *ImportService) MergeAndImport(ctx context.Context, env string, csvFile, xlsxFile io.Reader) (*ImportReportDTO, error) {
	environment, err := defect.ParseEnvironment(env)
	if err != nil {
		return nil, err
	}

	parser, err := csvimport.NewCSVReader(csvFile)
	if err != nil {
		return nil, err
	}
	if err := csvimport.ValidateRequired(parser.HasHeader); err != nil {
		return nil, err
	}
	csvRows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}

	xlsxReader, err := csvimport.NewXLSXReader(xlsxFile)
	if err != nil {
		return nil, err
	}
	if err := csvimport.ValidateRequired(xlsxReader.HasHeader); err != nil {
		return nil, err
	}

	trackerDefects, rejected := s.mapRows(csvRows, environment)
	ttwosDefects, ttwosRejected := s.mapRows(xlsxReader.ReadAllRows(), environment)
	rejected += ttwosRejected

	seen := make(map[string]bool, len(trackerDefects))
	for _, d := range trackerDefects {
		seen[d.IssueKey] = true
	}
	merged := trackerDefects
	for _, d := range ttwosDefects {
		if seen[d.IssueKey] {
			continue
		}
		seen[d.IssueKey] = true
		merged = append(merged, d)
	}

	return s.persist(ctx, environment, merged, rejected)
}

func (s *ImportService) mapRows(rows []*csvimport.Row, env defect.Environment) ([]defect.Defect, int) {
	defects := make([]defect.Defect, 0, len(rows))
	rejected := 0
	for _, row := range rows {
		d, err := csvimport.RowToDefect(row.Get, env)
		if err != nil {
			rejected++
			s.logger.Warn("Skipping unmappable import row",
				zap.Int("line", row.LineNumber),
				zap.Error(err))
			continue
		}
		defects = append(defects, *d)
	}
	return defects, rejected
}

func (s *ImportService) persist(ctx context.Context, env defect.Environment, defects []defect.Defect, rejected int) (*ImportReportDTO, error) {
	result, err := s.repo.SaveIgnoreDuplicates(ctx, env, defects)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Import finished",
		zap.String("environment", string(env)),
		zap.Int64("inserted", result.Inserted),
		zap.Int64("skipped", result.Skipped),
		zap.Int("rejected", rejected))

	return &ImportReportDTO{
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
		Total:    result.Total,
		Rejected: rejected,
	}, nil
}

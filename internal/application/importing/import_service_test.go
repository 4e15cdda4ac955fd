package importing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/domain/defect"
	"github.com/skute123/genai-defect-management/internal/domain/shared"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) FindByIssueKey(ctx context.Context, env defect.Environment, issueKey string) (*defect.Defect, error) {
	args := m.Called(ctx, env, issueKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*defect.Defect), args.Error(1)
}

func (m *mockRepo) FindAll(ctx context.Context, env defect.Environment, filter shared.Filter) ([]defect.Defect, int64, error) {
	args := m.Called(ctx, env, filter)
	return args.Get(0).([]defect.Defect), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) SearchKeyword(ctx context.Context, env defect.Environment, columns []defect.SearchColumn, term string, filter shared.Filter) ([]defect.Defect, int64, error) {
	args := m.Called(ctx, env, columns, term, filter)
	return args.Get(0).([]defect.Defect), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) CountByOSFSystem(ctx context.Context, env defect.Environment) ([]defect.Distribution, error) {
	args := m.Called(ctx, env)
	return args.Get(0).([]defect.Distribution), args.Error(1)
}

func (m *mockRepo) CountByVendorApplication(ctx context.Context, env defect.Environment) ([]defect.Distribution, error) {
	args := m.Called(ctx, env)
	return args.Get(0).([]defect.Distribution), args.Error(1)
}

func (m *mockRepo) SaveIgnoreDuplicates(ctx context.Context, env defect.Environment, defects []defect.Defect) (*defect.ImportResult, error) {
	args := m.Called(ctx, env, defects)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*defect.ImportResult), args.Error(1)
}

func (m *mockRepo) Count(ctx context.Context, env defect.Environment) (int64, error) {
	args := m.Called(ctx, env)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) FindAllForIndexing(ctx context.Context, env defect.Environment) ([]defect.Defect, error) {
	args := m.Called(ctx, env)
	return args.Get(0).([]defect.Defect), args.Error(1)
}

const jiraCSV = `Issue key,Summary,Priority,Comment,Comment
OSF-1,Order stuck,High,first note,second note
OSF-2,Bad payload,Low,,
,row without key,Low,,
`

func ttwosWorkbook(t *testing.T, issueKey string) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"Ticketnummer", "Kurzbeschreibung", "Kategorie1 +"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	values := []string{issueKey, "Bestellung hängt", "Order Core"}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestImportService_ImportJiraCSV(t *testing.T) {
	repo := new(mockRepo)
	svc := NewImportService(repo, zap.NewNop())
	ctx := context.Background()

	repo.On("SaveIgnoreDuplicates", ctx, defect.EnvironmentACC, mock.MatchedBy(func(defects []defect.Defect) bool {
		return len(defects) == 2 &&
			defects[0].IssueKey == "OSF-1" &&
			defects[0].Comment == "first note\nsecond note"
	})).Return(&defect.ImportResult{Inserted: 2, Skipped: 0, Total: 2}, nil)

	report, err := svc.ImportJiraCSV(ctx, "acc", strings.NewReader(jiraCSV))
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Inserted)
	assert.Equal(t, 1, report.Rejected)
	repo.AssertExpectations(t)
}

func TestImportService_ImportJiraCSV_MissingColumns(t *testing.T) {
	svc := NewImportService(new(mockRepo), zap.NewNop())

	_, err := svc.ImportJiraCSV(context.Background(), "acc", strings.NewReader("Priority\nHigh\n"))
	assert.Error(t, err)
}

func TestImportService_ImportTTWOSXLSX(t *testing.T) {
	repo := new(mockRepo)
	svc := NewImportService(repo, zap.NewNop())
	ctx := context.Background()

	repo.On("SaveIgnoreDuplicates", ctx, defect.EnvironmentSIT, mock.MatchedBy(func(defects []defect.Defect) bool {
		return len(defects) == 1 &&
			defects[0].IssueKey == "OSF-77" &&
			defects[0].OSFSystem == "Order Core"
	})).Return(&defect.ImportResult{Inserted: 1, Total: 1}, nil)

	report, err := svc.ImportTTWOSXLSX(ctx, "sit", ttwosWorkbook(t, "OSF-77"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Inserted)
	repo.AssertExpectations(t)
}

func TestImportService_MergeAndImport_TrackerRowWins(t *testing.T) {
	repo := new(mockRepo)
	svc := NewImportService(repo, zap.NewNop())
	ctx := context.Background()

	// OSF-1 appears in both sources; the CSV version must survive
	repo.On("SaveIgnoreDuplicates", ctx, defect.EnvironmentACC, mock.MatchedBy(func(defects []defect.Defect) bool {
		if len(defects) != 2 {
			return false
		}
		byKey := make(map[string]defect.Defect)
		for _, d := range defects {
			byKey[d.IssueKey] = d
		}
		return byKey["OSF-1"].Summary == "Order stuck" && byKey["OSF-2"].Summary == "Bad payload"
	})).Return(&defect.ImportResult{Inserted: 2, Total: 2}, nil)

	report, err := svc.MergeAndImport(ctx, "acc", strings.NewReader(jiraCSV), ttwosWorkbook(t, "OSF-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Inserted)
	repo.AssertExpectations(t)
}

func TestImportService_BadEnvironment(t *testing.T) {
	svc := NewImportService(new(mockRepo), zap.NewNop())
	_, err := svc.ImportJiraCSV(context.Background(), "prod", strings.NewReader(jiraCSV))
	assert.Error(t, err)
}

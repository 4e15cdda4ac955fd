package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skute123/genai-defect-management/internal/domain/defect"
	"github.com/skute123/genai-defect-management/internal/domain/shared"
)

// GormDefectRepository implements defect.Repository on gorm
type GormDefectRepository struct {
	db *gorm.DB
}

// NewGormDefectRepository creates a gorm-backed defect repository
func NewGormDefectRepository(db *gorm.DB) *GormDefectRepository {
	return &GormDefectRepository{db: db}
}

func (r *GormDefectRepository) table(ctx context.Context, env defect.Environment) *gorm.DB {
	return r.db.WithContext(ctx).Table(DefectTableName(env))
}

func (r *GormDefectRepository) FindByIssueKey(ctx context.Context, env defect.Environment, issueKey string) (*defect.Defect, error) {
	var model DefectModel
	err := r.table(ctx, env).
		Where("`Issue key` = ?", defect.NormalizeIssueKey(issueKey)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find defect by issue key: %w", err)
	}
	d := model.ToDomain(env)
	return &d, nil
}

func (r *GormDefectRepository) FindAll(ctx context.Context, env defect.Environment, filter shared.Filter) ([]defect.Defect, int64, error) {
	var total int64
	if err := r.table(ctx, env).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count defects: %w", err)
	}

	var models []DefectModel
	err := r.table(ctx, env).
		Order("`Issue key` DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list defects: %w", err)
	}

	return toDomainSlice(models, env), total, nil
}

func (r *GormDefectRepository) SearchKeyword(ctx context.Context, env defect.Environment, columns []defect.SearchColumn, term string, filter shared.Filter) ([]defect.Defect, int64, error) {
	if len(columns) == 0 {
		return nil, 0, shared.NewDomainError("INVALID_SEARCH_COLUMN", "at least one search column is required")
	}

	conds := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	pattern := "%" + strings.ToLower(term) + "%"
	for _, col := range columns {
		name, ok := searchColumnNames[col]
		if !ok {
			return nil, 0, shared.NewDomainErrorf("INVALID_SEARCH_COLUMN", "unknown search column %q", string(col))
		}
		conds = append(conds, fmt.Sprintf("LOWER(`%s`) LIKE ?", name))
		args = append(args, pattern)
	}
	where := strings.Join(conds, " OR ")

	var total int64
	if err := r.table(ctx, env).Where(where, args...).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count keyword matches: %w", err)
	}

	var models []DefectModel
	err := r.table(ctx, env).
		Where(where, args...).
		Order("`Issue key` DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search defects: %w", err)
	}

	return toDomainSlice(models, env), total, nil
}

type distributionRow struct {
	Label string
	Count int64
}

func (r *GormDefectRepository) CountByOSFSystem(ctx context.Context, env defect.Environment) ([]defect.Distribution, error) {
	return r.countBy(ctx, env, "Custom field (OSF-System)")
}

func (r *GormDefectRepository) CountByVendorApplication(ctx context.Context, env defect.Environment) ([]defect.Distribution, error) {
	return r.countBy(ctx, env, "Custom field (Vendor + Application)")
}

func (r *GormDefectRepository) countBy(ctx context.Context, env defect.Environment, column string) ([]defect.Distribution, error) {
	var rows []distributionRow
	err := r.table(ctx, env).
		Select(fmt.Sprintf("`%s` AS label, COUNT(*) AS count", column)).
		Group(fmt.Sprintf("`%s`", column)).
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", column, err)
	}

	dist := make([]defect.Distribution, len(rows))
	for i, row := range rows {
		dist[i] = defect.Distribution{Label: row.Label, Count: row.Count}
	}
	return dist, nil
}

func (r *GormDefectRepository) SaveIgnoreDuplicates(ctx context.Context, env defect.Environment, defects []defect.Defect) (*defect.ImportResult, error) {
	result := &defect.ImportResult{Total: int64(len(defects))}
	if len(defects) == 0 {
		return result, nil
	}

	models := make([]DefectModel, len(defects))
	for i, d := range defects {
		models[i] = FromDomain(d)
	}

	// Existing issue keys are left untouched
	tx := r.table(ctx, env).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(models, 200)
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to insert defects: %w", tx.Error)
	}

	result.Inserted = tx.RowsAffected
	result.Skipped = result.Total - result.Inserted
	if result.Skipped < 0 {
		result.Skipped = 0
	}
	return result, nil
}

func (r *GormDefectRepository) Count(ctx context.Context, env defect.Environment) (int64, error) {
	var total int64
	if err := r.table(ctx, env).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count defects: %w", err)
	}
	return total, nil
}

func (r *GormDefectRepository) FindAllForIndexing(ctx context.Context, env defect.Environment) ([]defect.Defect, error) {
	var models []DefectModel
	if err := r.table(ctx, env).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load defects for indexing: %w", err)
	}
	return toDomainSlice(models, env), nil
}

func toDomainSlice(models []DefectModel, env defect.Environment) []defect.Defect {
	defects := make([]defect.Defect, len(models))
	for i := range models {
		defects[i] = models[i].ToDomain(env)
	}
	return defects
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voltaic/iqc/internal/iqc/entity"
	"gorm.io/gorm"
)

// DecisionRepository 检验判定仓库
type DecisionRepository struct {
	db *gorm.DB
}

func NewDecisionRepository(db *gorm.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// FindAll 查询判定记录列表
func (r *DecisionRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.InspectionDecision, int64, error) {
	var items []entity.InspectionDecision
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.InspectionDecision{})

	if result := filters["result"]; result != "" {
		query = query.Where("result = ?", result)
	}
	if partNumber := filters["part_number"]; partNumber != "" {
		query = query.Where("part_number = ?", partNumber)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找判定记录
func (r *DecisionRepository) FindByID(ctx context.Context, id string) (*entity.InspectionDecision, error) {
	var decision entity.InspectionDecision
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&decision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &decision, nil
}

// Create 创建判定记录
func (r *DecisionRepository) Create(ctx context.Context, decision *entity.InspectionDecision) error {
	return r.db.WithContext(ctx).Create(decision).Error
}

// GenerateCode 生成判定编码 IQC-{year}-{4位}
func (r *DecisionRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("IQC-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.InspectionDecision{}).
		Select("COALESCE(MAX(decision_code), '')").
		Where("decision_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "IQC-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("IQC-%s-%04d", year, seq), nil
}

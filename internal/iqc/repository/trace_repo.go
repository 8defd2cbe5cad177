package repository

import (
	"context"
	"errors"

	"github.com/voltaic/iqc/internal/iqc/entity"
	"gorm.io/gorm"
)

// TraceRepository 追溯记录仓库
type TraceRepository struct {
	db *gorm.DB
}

func NewTraceRepository(db *gorm.DB) *TraceRepository {
	return &TraceRepository{db: db}
}

// FindByReference 根据参考号查找追溯记录
func (r *TraceRepository) FindByReference(ctx context.Context, refNo string) (*entity.TraceabilityRecord, error) {
	var rec entity.TraceabilityRecord
	err := r.db.WithContext(ctx).
		Where("reference_no = ?", refNo).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListReferences 查询全部参考号，用于搜索建议
func (r *TraceRepository) ListReferences(ctx context.Context) ([]string, error) {
	var refs []string
	err := r.db.WithContext(ctx).
		Model(&entity.TraceabilityRecord{}).
		Order("reference_no ASC").
		Pluck("reference_no", &refs).Error
	return refs, err
}

// Create 创建追溯记录
func (r *TraceRepository) Create(ctx context.Context, rec *entity.TraceabilityRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Update 更新追溯记录
func (r *TraceRepository) Update(ctx context.Context, rec *entity.TraceabilityRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// SubcontractRepository 外协检验明细仓库
type SubcontractRepository struct {
	db *gorm.DB
}

func NewSubcontractRepository(db *gorm.DB) *SubcontractRepository {
	return &SubcontractRepository{db: db}
}

// FindByReference 根据参考号查询外协明细，可能为空
func (r *SubcontractRepository) FindByReference(ctx context.Context, refNo string) ([]entity.SubcontractDetail, error) {
	var items []entity.SubcontractDetail
	err := r.db.WithContext(ctx).
		Where("reference_no = ?", refNo).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// Create 创建外协明细
func (r *SubcontractRepository) Create(ctx context.Context, detail *entity.SubcontractDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

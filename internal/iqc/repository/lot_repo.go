package repository

import (
	"context"
	"errors"

	"github.com/voltaic/iqc/internal/iqc/entity"
	"gorm.io/gorm"
)

// LotRepository 收货批次仓库
type LotRepository struct {
	db *gorm.DB
}

func NewLotRepository(db *gorm.DB) *LotRepository {
	return &LotRepository{db: db}
}

// FindAll 查询批次列表
func (r *LotRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.GRLot, int64, error) {
	var items []entity.GRLot
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.GRLot{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if vendor := filters["vendor"]; vendor != "" {
		query = query.Where("vendor ILIKE ?", "%"+vendor+"%")
	}
	if grNo := filters["gr_no"]; grNo != "" {
		query = query.Where("gr_no = ?", grNo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("slno ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindBySLNo 根据序号查找批次
func (r *LotRepository) FindBySLNo(ctx context.Context, slno int) (*entity.GRLot, error) {
	var lot entity.GRLot
	err := r.db.WithContext(ctx).
		Where("slno = ?", slno).
		First(&lot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// Create 创建批次
func (r *LotRepository) Create(ctx context.Context, lot *entity.GRLot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

// UpdateStatus 更新批次检验状态
func (r *LotRepository) UpdateStatus(ctx context.Context, slno int, status string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.GRLot{}).
		Where("slno = ?", slno).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

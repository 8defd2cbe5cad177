package repository

import (
	"context"

	"github.com/voltaic/iqc/internal/iqc/entity"
)

// LotSource 批次数据来源
// Implemented by the live repository and by the fixture source used when the
// live source is unavailable.
type LotSource interface {
	FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.GRLot, int64, error)
	FindBySLNo(ctx context.Context, slno int) (*entity.GRLot, error)
}

// FixtureLotSource 内置批次数据，接口形状与在线仓库一致
type FixtureLotSource struct {
	lots []entity.GRLot
}

func NewFixtureLotSource() *FixtureLotSource {
	return &FixtureLotSource{lots: fixtureLots()}
}

func fixtureLots() []entity.GRLot {
	return []entity.GRLot{
		{
			ID:         "fixture-gr2025-001",
			SLNo:       1,
			GRNo:       "GR2025-001",
			GRDate:     "2025-01-15",
			PartNumber: "BEL-12345",
			MPN:        "MPN-AX45",
			BatchNo:    "BATCH-789",
			DateCode:   "2024-12",
			TotalQty:   150,
			PONo:       "PO-56789",
			Vendor:     "ABC Electronics Pvt Ltd",
			OEMMake:    "Siemens",
			MadeIn:     "Germany",
			RefNo:      "RCPT-001",
			Status:     entity.LotStatusPending,
		},
		{
			ID:         "fixture-gr2025-002",
			SLNo:       2,
			GRNo:       "GR2025-002",
			GRDate:     "2025-01-20",
			PartNumber: "BEL-54321",
			MPN:        "MPN-ZX90",
			BatchNo:    "BATCH-456",
			DateCode:   "2025-01",
			TotalQty:   300,
			PONo:       "PO-99887",
			Vendor:     "Global Tech Supplies",
			OEMMake:    "Honeywell",
			MadeIn:     "USA",
			RefNo:      "RCPT-002",
			Status:     entity.LotStatusPending,
		},
		{
			ID:         "fixture-gr2025-003",
			SLNo:       3,
			GRNo:       "GR2025-003",
			GRDate:     "2025-01-22",
			PartNumber: "BEL-67890",
			MPN:        "MPN-QT12",
			BatchNo:    "BATCH-123",
			DateCode:   "2024-10",
			TotalQty:   75,
			PONo:       "PO-11223",
			Vendor:     "Precision Components Ltd",
			OEMMake:    "Bosch",
			MadeIn:     "India",
			RefNo:      "RCPT-003",
			Status:     entity.LotStatusPending,
		},
	}
}

// FindAll 返回内置批次，分页语义与在线仓库一致
func (s *FixtureLotSource) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.GRLot, int64, error) {
	var items []entity.GRLot
	for _, lot := range s.lots {
		if status := filters["status"]; status != "" && lot.Status != status {
			continue
		}
		items = append(items, lot)
	}
	total := int64(len(items))

	offset := (page - 1) * pageSize
	if offset >= len(items) {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total, nil
}

// FindBySLNo 根据序号查找内置批次
func (s *FixtureLotSource) FindBySLNo(ctx context.Context, slno int) (*entity.GRLot, error) {
	for i := range s.lots {
		if s.lots[i].SLNo == slno {
			lot := s.lots[i]
			return &lot, nil
		}
	}
	return nil, ErrNotFound
}

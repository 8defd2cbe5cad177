package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories IQC仓库集合
type Repositories struct {
	Lot         *LotRepository
	Trace       *TraceRepository
	Subcontract *SubcontractRepository
	Decision    *DecisionRepository
	ActivityLog *ActivityLogRepository
}

// NewRepositories 创建IQC仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Lot:         NewLotRepository(db),
		Trace:       NewTraceRepository(db),
		Subcontract: NewSubcontractRepository(db),
		Decision:    NewDecisionRepository(db),
		ActivityLog: NewActivityLogRepository(db),
	}
}

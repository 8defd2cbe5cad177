package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/voltaic/iqc/internal/iqc/engine"
	"github.com/voltaic/iqc/internal/iqc/entity"
	"github.com/voltaic/iqc/internal/iqc/events"
	"github.com/voltaic/iqc/internal/iqc/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DecisionService 最终判定服务
type DecisionService struct {
	sessions  *SessionService
	lots      *LotService
	repo      *repository.DecisionRepository
	logRepo   *repository.ActivityLogRepository
	publisher *events.DecisionPublisher
	logger    *zap.Logger
}

func NewDecisionService(sessions *SessionService, lots *LotService, repo *repository.DecisionRepository, logRepo *repository.ActivityLogRepository, logger *zap.Logger) *DecisionService {
	return &DecisionService{
		sessions: sessions,
		lots:     lots,
		repo:     repo,
		logRepo:  logRepo,
		logger:   logger,
	}
}

// SetPublisher 注入判定事件发布器，未注入时跳过发布
func (s *DecisionService) SetPublisher(p *events.DecisionPublisher) {
	s.publisher = p
}

// Submit 提交最终判定
// Validation runs first; on success the QR payload is built, the decision is
// persisted, the lot status flips, and a decision event goes out.
func (s *DecisionService) Submit(ctx context.Context, userID, userName string, decision engine.DecisionType) (*entity.InspectionDecision, error) {
	sess, err := s.sessions.withSession(userID)
	if err != nil {
		return nil, err
	}

	if err := sess.ValidateForDecision(); err != nil {
		return nil, err
	}

	payload := sess.BuildQRPayload(decision)

	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate decision code: %w", err)
	}

	result := entity.DecisionResultAccepted
	lotStatus := entity.LotStatusAccepted
	if decision == engine.DecisionReject {
		result = entity.DecisionResultRejected
		lotStatus = entity.LotStatusRejected
	}

	var accepted, rejected int
	if acc := sess.AcceptedInSample(); acc != nil {
		accepted = *acc
		if rej := sess.RejectedInSample(); rej != nil {
			rejected = *rej
		}
	} else if decision == engine.DecisionAccept {
		accepted = sess.TotalQty
	} else {
		rejected = sess.TotalQty
	}

	rec := &entity.InspectionDecision{
		ID:               uuid.New().String()[:32],
		DecisionCode:     code,
		LotSLNo:          sess.LotSLNo,
		PartNumber:       sess.PartNumber,
		MPN:              sess.MPN,
		BatchNo:          sess.BatchNo,
		PONo:             sess.PONo,
		Vendor:           sess.Vendor,
		Result:           result,
		TotalQty:         sess.TotalQty,
		SamplingPercent:  sess.SamplingPercent,
		SampleQty:        sess.SampleQty(),
		AcceptedInSample: accepted,
		RejectedInSample: rejected,
		InspectedBy:      sess.InspectedBy,
		InspectionDate:   sess.InspectionDate,
		ControlNo:        sess.ControlNo,
		Remarks:          sess.Remarks,
		QRPayload:        payload,
		OperatorID:       userID,
		OperatorName:     userName,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create decision: %w", err)
	}

	if err := s.lots.MarkLotStatus(ctx, sess.LotSLNo, lotStatus); err != nil {
		s.logger.Error("failed to update lot status", zap.Int("slno", sess.LotSLNo), zap.Error(err))
	}

	s.logRepo.LogActivity(ctx, "decision", rec.ID, code, "decision", entity.LotStatusPending, lotStatus, payload, userID, userName)

	if s.publisher != nil {
		if err := s.publisher.PublishDecision(ctx, rec); err != nil {
			s.logger.Error("failed to publish decision event", zap.String("code", code), zap.Error(err))
		}
	}

	return rec, nil
}

// ListDecisions 获取判定记录列表
func (s *DecisionService) ListDecisions(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.InspectionDecision, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// ExportDecisions 导出判定台账为xlsx
func (s *DecisionService) ExportDecisions(ctx context.Context, filters map[string]string) (*excelize.File, error) {
	items, _, err := s.repo.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load decisions: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Decisions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Decision Code", "Part Number", "MPN", "Batch No", "PO No", "Vendor",
		"Result", "Total Qty", "Sampling %", "Sample Qty", "Accepted", "Rejected",
		"Inspected By", "Date", "Control No", "Remarks"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, d := range items {
		values := []interface{}{
			d.DecisionCode, d.PartNumber, d.MPN, d.BatchNo, d.PONo, d.Vendor,
			d.Result, d.TotalQty, d.SamplingPercent, d.SampleQty,
			d.AcceptedInSample, d.RejectedInSample,
			d.InspectedBy, d.InspectionDate, d.ControlNo, d.Remarks,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}

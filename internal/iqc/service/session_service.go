package service

import (
	"context"
	"errors"
	"sync"

	"github.com/voltaic/iqc/internal/iqc/engine"
	"github.com/voltaic/iqc/internal/iqc/repository"
)

var ErrNoSession = errors.New("no inspection session, select a lot first")

// SessionService 检验会话服务
// Sessions are in-memory working state keyed by operator id. Selecting a lot
// replaces whatever session the operator had; nothing survives a restart until
// a decision is submitted.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*engine.Session

	lots    *LotService
	logRepo *repository.ActivityLogRepository
	cfg     engine.Config
}

func NewSessionService(lots *LotService, logRepo *repository.ActivityLogRepository, cfg engine.Config) *SessionService {
	return &SessionService{
		sessions: make(map[string]*engine.Session),
		lots:     lots,
		logRepo:  logRepo,
		cfg:      cfg,
	}
}

// SelectLot 选择批次并初始化会话，替换该操作员已有会话
func (s *SessionService) SelectLot(ctx context.Context, userID, userName string, slno int) (engine.SessionView, error) {
	lot, err := s.lots.GetLot(ctx, slno)
	if err != nil {
		return engine.SessionView{}, err
	}

	sess := engine.NewSession(engine.LotInfo{
		SLNo:       lot.SLNo,
		PartNumber: lot.PartNumber,
		MPN:        lot.MPN,
		BatchNo:    lot.BatchNo,
		PONo:       lot.PONo,
		Vendor:     lot.Vendor,
		TotalQty:   lot.TotalQty,
	}, s.cfg)

	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()

	s.logRepo.LogActivity(ctx, "session", userID, lot.GRNo, "select_lot", "", "", "", userID, userName)
	return sess.Snapshot(), nil
}

// ClearSession 清除会话，恢复默认状态
func (s *SessionService) ClearSession(userID string) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// Snapshot 获取会话快照
func (s *SessionService) Snapshot(userID string) (engine.SessionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return engine.SessionView{}, ErrNoSession
	}
	return sess.Snapshot(), nil
}

// mutate 在持锁状态下修改会话
func (s *SessionService) mutate(userID string, fn func(*engine.Session) error) (engine.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return engine.SessionView{}, ErrNoSession
	}
	if err := fn(sess); err != nil {
		return engine.SessionView{}, err
	}
	return sess.Snapshot(), nil
}

// FormUpdate 表单字段更新，nil字段保持不变
type FormUpdate struct {
	InspectedBy    *string `json:"inspected_by"`
	InspectionDate *string `json:"inspection_date"`
	ControlNo      *string `json:"control_no"`
	Remarks        *string `json:"remarks"`
	SpecialProcess *string `json:"special_process"`
}

// UpdateForm 更新表单字段
func (s *SessionService) UpdateForm(userID string, req *FormUpdate) (engine.SessionView, error) {
	return s.mutate(userID, func(sess *engine.Session) error {
		if req.InspectedBy != nil {
			sess.InspectedBy = *req.InspectedBy
		}
		if req.InspectionDate != nil {
			sess.InspectionDate = *req.InspectionDate
		}
		if req.ControlNo != nil {
			sess.ControlNo = *req.ControlNo
		}
		if req.Remarks != nil {
			sess.Remarks = *req.Remarks
		}
		if req.SpecialProcess != nil {
			sess.SpecialProcess = *req.SpecialProcess
		}
		return nil
	})
}

// SetSamplingPercent 设置抽样百分比（非法输入静默忽略）
func (s *SessionService) SetSamplingPercent(userID, raw string) (engine.SessionView, error) {
	return s.mutate(userID, func(sess *engine.Session) error {
		sess.SetSamplingPercent(raw)
		return nil
	})
}

// SetAcceptedInSample 设置样本合格数
func (s *SessionService) SetAcceptedInSample(userID, raw string) (engine.SessionView, error) {
	return s.mutate(userID, func(sess *engine.Session) error {
		return sess.SetAcceptedInSample(raw)
	})
}

// SetCategory 设置检验类别
func (s *SessionService) SetCategory(userID, raw string) (engine.SessionView, error) {
	return s.mutate(userID, func(sess *engine.Session) error {
		return sess.SetCategory(raw)
	})
}

// InsertRow 插入检验行
func (s *SessionService) InsertRow(userID string, pos int) (engine.SessionView, error) {
	return s.mutate(userID, func(sess *engine.Session) error {
		return sess.InsertRow(pos)
	})
}

// DeleteRow 删除检验行
func (s *SessionService) DeleteRow(userID string, index int) (engine.SessionView, error) {
	return s.mutate(userID, func(sess *engine.Session) error {
		return sess.DeleteRow(index)
	})
}

// SetBasicDimension 设置基本尺寸
func (s *SessionService) SetBasicDimension(userID string, rowIdx int, raw string) (engine.SessionView, error) {
	return s.mutate(userID, func(sess *engine.Session) error {
		return sess.SetBasicDimension(rowIdx, raw)
	})
}

// SetObserved 记录观测值
func (s *SessionService) SetObserved(userID string, rowIdx, obsIdx int, raw string) (engine.SessionView, error) {
	return s.mutate(userID, func(sess *engine.Session) error {
		return sess.SetObserved(rowIdx, obsIdx, raw)
	})
}

// Results 获取逐项判定结果和汇总
func (s *SessionService) Results(userID string) ([]engine.ObservationResult, engine.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, engine.Summary{}, ErrNoSession
	}
	return sess.Results(), sess.Summarize(), nil
}

// Hold 标记需要申购人介入并暂停工序
func (s *SessionService) Hold(ctx context.Context, userID, userName string) (engine.SessionView, error) {
	view, err := s.mutate(userID, func(sess *engine.Session) error {
		sess.RequireIndenterIntervention()
		return nil
	})
	if err == nil {
		s.logRepo.LogActivity(ctx, "session", userID, "", "hold", "active", "on_hold", "", userID, userName)
	}
	return view, err
}

// Resume 申购人响应后恢复工序
func (s *SessionService) Resume(ctx context.Context, userID, userName string) (engine.SessionView, error) {
	view, err := s.mutate(userID, func(sess *engine.Session) error {
		sess.ResumeProcess()
		return nil
	})
	if err == nil {
		s.logRepo.LogActivity(ctx, "session", userID, "", "resume", "on_hold", "active", "", userID, userName)
	}
	return view, err
}

// withSession 只读访问会话
func (s *SessionService) withSession(userID string) (*engine.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

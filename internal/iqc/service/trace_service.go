package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/voltaic/iqc/internal/iqc/entity"
	"github.com/voltaic/iqc/internal/iqc/trace"
	"go.uber.org/zap"
)

const (
	refListCacheKey = "iqc:reflist"
	refListCacheTTL = 60 * time.Second
)

// TraceStore 追溯记录读取接口
type TraceStore interface {
	FindByReference(ctx context.Context, refNo string) (*entity.TraceabilityRecord, error)
	ListReferences(ctx context.Context) ([]string, error)
}

// TraceService 追溯服务
// Concurrent lookups follow last-query-wins: each query takes a generation
// number, and a resolution is only published if no newer query started while
// it was in flight.
type TraceService struct {
	store  TraceStore
	rdb    *redis.Client
	logger *zap.Logger

	mu         sync.Mutex
	generation uint64
	current    *trace.Timeline
	currentRef string
}

func NewTraceService(store TraceStore, logger *zap.Logger) *TraceService {
	return &TraceService{store: store, logger: logger}
}

// SetRedis 注入redis客户端，未注入时参考号列表直接查库
func (s *TraceService) SetRedis(rdb *redis.Client) {
	s.rdb = rdb
}

// GetTimeline 按参考号查询并派生时间线
func (s *TraceService) GetTimeline(ctx context.Context, refNo string) (*trace.Timeline, error) {
	refNo = strings.TrimSpace(refNo)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	rec, err := s.store.FindByReference(ctx, refNo)
	if err != nil {
		return nil, err
	}

	tl := trace.Derive(trace.Record{
		ReferenceNo:         rec.ReferenceNo,
		PartNumber:          rec.PartNumber,
		Description:         rec.Description,
		PONo:                rec.PONo,
		BatchLot:            rec.BatchLot,
		LogEntry:            rec.LogEntry,
		GRNo:                rec.GRNo,
		GRDate:              rec.GRDate,
		QRGenerated:         rec.QRGenerated,
		InspectionStarted:   rec.InspectionStarted,
		InspectionSubmitted: rec.InspectionSubmitted,
		InspectionRemarks:   rec.InspectionRemarks,
		InspectorName:       rec.InspectorName,
		InspectorID:         rec.InspectorID,
		ApprovalStatus:      rec.ApprovalStatus,
		ApprovalDate:        rec.ApprovalDate,
		ApproverRemarks:     rec.ApproverRemarks,
		ApproverName:        rec.ApproverName,
		ApproverID:          rec.ApproverID,
		SBU:                 rec.SBU,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		// 只有最后一次查询的结果才会成为当前视图
		s.current = &tl
		s.currentRef = refNo
	}
	return &tl, nil
}

// CurrentTimeline 当前展示的时间线（最后一次完成且未被取代的查询）
func (s *TraceService) CurrentTimeline() (*trace.Timeline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// ListReferences 获取参考号列表，redis短TTL缓存
func (s *TraceService) ListReferences(ctx context.Context) ([]string, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, refListCacheKey).Result()
		if err == nil {
			var refs []string
			if jerr := json.Unmarshal([]byte(cached), &refs); jerr == nil {
				return refs, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("reflist cache read failed", zap.Error(err))
		}
	}

	refs, err := s.store.ListReferences(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, jerr := json.Marshal(refs); jerr == nil {
			if err := s.rdb.Set(ctx, refListCacheKey, data, refListCacheTTL).Err(); err != nil {
				s.logger.Warn("reflist cache write failed", zap.Error(err))
			}
		}
	}
	return refs, nil
}

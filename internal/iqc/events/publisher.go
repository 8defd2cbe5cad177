package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/voltaic/iqc/internal/iqc/entity"
	"go.uber.org/zap"
)

// DecisionEvent 判定事件消息体
type DecisionEvent struct {
	DecisionCode     string    `json:"decision_code"`
	LotSLNo          int       `json:"lot_slno"`
	PartNumber       string    `json:"part_number"`
	BatchNo          string    `json:"batch_no"`
	Result           string    `json:"result"`
	TotalQty         int       `json:"total_qty"`
	SampleQty        int       `json:"sample_qty"`
	AcceptedInSample int       `json:"accepted_in_sample"`
	RejectedInSample int       `json:"rejected_in_sample"`
	InspectedBy      string    `json:"inspected_by"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// DecisionPublisher 判定事件发布器
type DecisionPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewDecisionPublisher 创建判定事件发布器
func NewDecisionPublisher(brokers []string, topic string, logger *zap.Logger) *DecisionPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &DecisionPublisher{writer: writer, logger: logger}
}

// PublishDecision 发布判定事件，按判定编码分区
func (p *DecisionPublisher) PublishDecision(ctx context.Context, d *entity.InspectionDecision) error {
	event := DecisionEvent{
		DecisionCode:     d.DecisionCode,
		LotSLNo:          d.LotSLNo,
		PartNumber:       d.PartNumber,
		BatchNo:          d.BatchNo,
		Result:           d.Result,
		TotalQty:         d.TotalQty,
		SampleQty:        d.SampleQty,
		AcceptedInSample: d.AcceptedInSample,
		RejectedInSample: d.RejectedInSample,
		InspectedBy:      d.InspectedBy,
		OccurredAt:       time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal decision event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(d.DecisionCode),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to write decision event: %w", err)
	}

	p.logger.Info("decision event published",
		zap.String("code", d.DecisionCode),
		zap.String("result", d.Result))
	return nil
}

// Close 关闭发布器
func (p *DecisionPublisher) Close() error {
	return p.writer.Close()
}

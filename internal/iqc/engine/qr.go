package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// DecisionType 最终判定类型
type DecisionType string

const (
	DecisionAccept DecisionType = "accept"
	DecisionReject DecisionType = "reject"
)

// ValidationError 提交判定前的校验错误，Message直接面向操作员
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateForDecision 提交判定前的固定顺序校验
// The checks run in a fixed order and the first failure wins, so the operator
// always sees the same message for the same incomplete form.
func (s *Session) ValidateForDecision() error {
	if s.PartNumber == "" {
		return &ValidationError{Message: "Select a row first."}
	}
	if s.TotalQty <= 0 {
		return &ValidationError{Message: "Invalid total quantity."}
	}
	if strings.TrimSpace(s.InspectedBy) == "" {
		return &ValidationError{Message: "Enter 'Inspected By' in the form."}
	}
	if strings.TrimSpace(s.InspectionDate) == "" {
		return &ValidationError{Message: "Enter Date."}
	}
	if acc := s.AcceptedInSample(); acc != nil && s.SampleQty() > 0 {
		if *acc < 0 || *acc > s.SampleQty() {
			return &ValidationError{Message: fmt.Sprintf("Accepted must be between 0 and %d", s.SampleQty())}
		}
	}
	return nil
}

// BuildQRPayload 生成判定二维码的文本载荷
// Field order is fixed. When the accepted count was never entered, accept
// falls back to the full lot quantity and reject treats the full lot as
// rejected; the complementary count is then zero.
func (s *Session) BuildQRPayload(decision DecisionType) string {
	sampleQty := s.SampleQty()
	acc := s.AcceptedInSample()

	var accepted, rejected int
	if acc != nil {
		accepted = *acc
		if rej := RejectedInSample(sampleQty, acc); rej != nil {
			rejected = *rej
		}
	} else if decision == DecisionAccept {
		accepted = s.TotalQty
		rejected = 0
	} else {
		accepted = 0
		rejected = s.TotalQty
	}

	result := "ACCEPTED"
	if decision == DecisionReject {
		result = "REJECTED"
	}

	fields := []struct {
		key   string
		value string
	}{
		{"result", result},
		{"partNumber", s.PartNumber},
		{"mpn", s.MPN},
		{"batchNo", s.BatchNo},
		{"poNo", s.PONo},
		{"totalQuantity", strconv.Itoa(s.TotalQty)},
		{"samplingPercent", formatPercent(s.SamplingPercent)},
		{"sampleQty", strconv.Itoa(sampleQty)},
		{"acceptedInSample", strconv.Itoa(accepted)},
		{"rejectedInSample", strconv.Itoa(rejected)},
		{"inspectedBy", s.InspectedBy},
		{"date", s.InspectionDate},
		{"controlNo", s.ControlNo},
		{"vendor", s.Vendor},
		{"remarks", s.Remarks},
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, f.key+": "+f.value)
	}
	return strings.Join(lines, "\n")
}

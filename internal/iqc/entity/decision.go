package entity

import "time"

// InspectionDecision 一次检验的最终判定记录
type InspectionDecision struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	DecisionCode string `json:"decision_code" gorm:"size:32;uniqueIndex;not null"`

	LotSLNo    int    `json:"lot_slno" gorm:"index"`
	PartNumber string `json:"part_number" gorm:"size:50"`
	MPN        string `json:"mpn" gorm:"size:50"`
	BatchNo    string `json:"batch_no" gorm:"size:50"`
	PONo       string `json:"po_no" gorm:"size:32"`
	Vendor     string `json:"vendor" gorm:"size:200"`

	Result           string  `json:"result" gorm:"size:20;not null"` // accepted/rejected
	TotalQty         int     `json:"total_qty"`
	SamplingPercent  float64 `json:"sampling_percent" gorm:"type:decimal(5,2)"`
	SampleQty        int     `json:"sample_qty"`
	AcceptedInSample int     `json:"accepted_in_sample"`
	RejectedInSample int     `json:"rejected_in_sample"`

	InspectedBy    string `json:"inspected_by" gorm:"size:100"`
	InspectionDate string `json:"inspection_date" gorm:"size:40"`
	ControlNo      string `json:"control_no" gorm:"size:50"`
	Remarks        string `json:"remarks" gorm:"type:text"`

	// 二维码文本载荷，固定字段顺序
	QRPayload string `json:"qr_payload" gorm:"type:text"`

	OperatorID   string    `json:"operator_id" gorm:"size:32"`
	OperatorName string    `json:"operator_name" gorm:"size:100"`
	CreatedAt    time.Time `json:"created_at"`
}

func (InspectionDecision) TableName() string {
	return "iqc_inspection_decisions"
}

// 判定结果
const (
	DecisionResultAccepted = "accepted"
	DecisionResultRejected = "rejected"
)

package entity

import "time"

// TraceabilityRecord 参考号的追溯记录
// Timeline timestamps are stored as the raw strings the upstream systems
// recorded; parsing happens at derivation time.
type TraceabilityRecord struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	ReferenceNo string `json:"reference_no" gorm:"size:32;uniqueIndex;not null"`

	PartNumber  string `json:"part_number" gorm:"size:50"`
	Description string `json:"description" gorm:"size:200"`
	PONo        string `json:"po_no" gorm:"size:32"`
	BatchLot    string `json:"batch_lot" gorm:"size:50"`

	// 时间线各节点
	LogEntry            string `json:"log_entry" gorm:"size:40"`
	GRNo                string `json:"gr_no" gorm:"size:32"`
	GRDate              string `json:"gr_date" gorm:"size:40"`
	QRGenerated         string `json:"qr_generated" gorm:"size:40"`
	InspectionStarted   string `json:"inspection_started" gorm:"size:40"`
	InspectionSubmitted string `json:"inspection_submitted" gorm:"size:40"`
	InspectionRemarks   string `json:"inspection_remarks" gorm:"type:text"`
	InspectorName       string `json:"inspector_name" gorm:"size:100"`
	InspectorID         string `json:"inspector_id" gorm:"size:32"`

	// 最终审批
	ApprovalStatus  string `json:"approval_status" gorm:"size:20"` // Approved/Rejected/空=Pending
	ApprovalDate    string `json:"approval_date" gorm:"size:40"`
	ApproverRemarks string `json:"approver_remarks" gorm:"type:text"`
	ApproverName    string `json:"approver_name" gorm:"size:100"`
	ApproverID      string `json:"approver_id" gorm:"size:32"`
	SBU             string `json:"sbu" gorm:"size:50"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TraceabilityRecord) TableName() string {
	return "iqc_traceability_records"
}

// SubcontractDetail 外协检验明细，按参考号关联GR行项
type SubcontractDetail struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	ReferenceNo string `json:"reference_no" gorm:"size:32;index;not null"`

	WorkOrderNo   string `json:"work_order_no" gorm:"size:32"`
	Subcontractor string `json:"subcontractor" gorm:"size:200"`
	ProcessName   string `json:"process_name" gorm:"size:100"`
	DrawingNo     string `json:"drawing_no" gorm:"size:50"`
	QtySent       int    `json:"qty_sent"`
	QtyReceived   int    `json:"qty_received"`
	Remarks       string `json:"remarks" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (SubcontractDetail) TableName() string {
	return "iqc_subcontract_details"
}

package entity

import "time"

// GRLot 收货批次（GR行项）
type GRLot struct {
	ID     string `json:"id" gorm:"primaryKey;size:32"`
	SLNo   int    `json:"slno" gorm:"uniqueIndex;not null"`
	GRNo   string `json:"gr_no" gorm:"size:32;not null"`
	GRDate string `json:"gr_date" gorm:"size:32"`

	PartNumber string `json:"part_number" gorm:"size:50;not null"`
	MPN        string `json:"mpn" gorm:"size:50"`
	BatchNo    string `json:"batch_no" gorm:"size:50"`
	DateCode   string `json:"date_code" gorm:"size:20"`
	TotalQty   int    `json:"total_qty"`

	PONo    string `json:"po_no" gorm:"size:32"`
	Vendor  string `json:"vendor" gorm:"size:200"`
	OEMMake string `json:"oem_make" gorm:"size:100"`
	MadeIn  string `json:"made_in" gorm:"size:100"`
	RefNo   string `json:"ref_no" gorm:"size:32;index"`
	Status  string `json:"status" gorm:"size:20;default:pending"` // pending/accepted/rejected

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GRLot) TableName() string {
	return "iqc_gr_lots"
}

// 批次检验状态
const (
	LotStatusPending  = "pending"
	LotStatusAccepted = "accepted"
	LotStatusRejected = "rejected"
)

package trace

import (
	"fmt"
	"math"
	"time"
)

// Record 某个参考号的追溯原始数据
// Timestamps stay raw strings: the timeline renders whatever was recorded and
// only parses when a step needs an actual time.
type Record struct {
	ReferenceNo string

	PartNumber  string
	Description string
	PONo        string
	BatchLot    string

	LogEntry            string
	GRNo                string
	GRDate              string
	QRGenerated         string
	InspectionStarted   string
	InspectionSubmitted string
	InspectionRemarks   string
	InspectorName       string
	InspectorID         string
	ApprovalStatus      string
	ApprovalDate        string
	ApproverRemarks     string
	ApproverName        string
	ApproverID          string
	SBU                 string
}

// Detail 步骤弹窗中的一行键值
type Detail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Step 时间线上的一个节点
// A step is completed when its date parses to a real time.
type Step struct {
	Label      string     `json:"label"`
	Date       string     `json:"date"`
	Completed  bool       `json:"completed"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	PersonName string     `json:"person_name,omitempty"`
	PersonID   string     `json:"person_id,omitempty"`
	Remarks    string     `json:"remarks,omitempty"`
	Details    []Detail   `json:"details"`
}

// Timeline 派生出的完整六步时间线
type Timeline struct {
	ReferenceNo string `json:"reference_no"`
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	Approved    bool   `json:"approved"`
	LeadTime    string `json:"lead_time"`
	Steps       []Step `json:"steps"`
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// Derive 由追溯记录派生六步时间线
func Derive(rec Record) Timeline {
	finalLabel := "Final Decision: " + orPending(rec.ApprovalStatus)

	steps := []Step{
		{
			Label: "Material Logged",
			Date:  rec.LogEntry,
			Details: []Detail{
				{Key: "PO No", Value: orNA(rec.PONo)},
				{Key: "Timestamp", Value: rec.LogEntry},
			},
		},
		{
			Label: "GR Created",
			Date:  rec.GRDate,
			Details: []Detail{
				{Key: "GR No", Value: rec.GRNo},
				{Key: "GR Date", Value: rec.GRDate},
			},
		},
		{
			Label: "QR Generated",
			Date:  rec.QRGenerated,
			Details: []Detail{
				{Key: "Batch/Lot", Value: orNA(rec.BatchLot)},
			},
		},
		{
			Label: "Inspection Started",
			Date:  rec.InspectionStarted,
			Details: []Detail{
				{Key: "Started At", Value: rec.InspectionStarted},
			},
		},
		{
			Label:      "Inspection Completed",
			Date:       rec.InspectionSubmitted,
			PersonName: rec.InspectorName,
			PersonID:   rec.InspectorID,
			Remarks:    rec.InspectionRemarks,
			Details: []Detail{
				{Key: "Result", Value: "Submitted"},
				{Key: "Remarks", Value: rec.InspectionRemarks},
			},
		},
		{
			Label:      finalLabel,
			Date:       rec.ApprovalDate,
			PersonName: rec.ApproverName,
			PersonID:   rec.ApproverID,
			Remarks:    rec.ApproverRemarks,
			Details: []Detail{
				{Key: "Decision", Value: rec.ApprovalStatus},
				{Key: "Approver", Value: rec.ApproverName},
				{Key: "SBU", Value: rec.SBU},
			},
		},
	}

	for i := range steps {
		if ts, ok := parseTimestamp(steps[i].Date); ok {
			steps[i].Completed = true
			steps[i].Timestamp = &ts
		}
	}

	return Timeline{
		ReferenceNo: rec.ReferenceNo,
		PartNumber:  rec.PartNumber,
		Description: rec.Description,
		Approved:    rec.ApprovalStatus == "Approved",
		LeadTime:    LeadTime(rec.GRDate, rec.ApprovalDate),
		Steps:       steps,
	}
}

func orPending(status string) string {
	if status == "" {
		return "Pending"
	}
	return status
}

// LeadTime 计算GR到最终判定的周期天数
// Either endpoint missing or unparseable yields "N/A". The day count is the
// absolute difference rounded up.
func LeadTime(grDate, approvalDate string) string {
	start, okStart := parseTimestamp(grDate)
	end, okEnd := parseTimestamp(approvalDate)
	if !okStart || !okEnd {
		return "N/A"
	}
	diff := math.Abs(end.Sub(start).Hours())
	days := int(math.Ceil(diff / 24))
	return fmt.Sprintf("%d Days", days)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

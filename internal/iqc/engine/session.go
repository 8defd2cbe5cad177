package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Category 检验类别
type Category string

const (
	CategoryMechanical        Category = "Mechanical"
	CategoryElectrical        Category = "Electrical"
	CategoryElectromechanical Category = "Electromechanical"
)

// Config 检验引擎参数
type Config struct {
	GeneralTolerance       float64 // 通用公差（±，单位随物料）
	DefaultSamplingPercent float64
	MechanicalSampleCount  int // 机械/机电类每行观测列数
	ElectricalSampleCount  int
}

// DefaultConfig 默认引擎参数
func DefaultConfig() Config {
	return Config{
		GeneralTolerance:       0.3,
		DefaultSamplingPercent: 10,
		MechanicalSampleCount:  15,
		ElectricalSampleCount:  5,
	}
}

// SampleColumns 返回类别对应的每行观测列数
func (c Config) SampleColumns(cat Category) int {
	switch cat {
	case CategoryElectrical:
		return c.ElectricalSampleCount
	case CategoryMechanical, CategoryElectromechanical:
		return c.MechanicalSampleCount
	default:
		return c.MechanicalSampleCount
	}
}

var (
	ErrProcessOnHold   = errors.New("process is on hold awaiting indenter response")
	ErrInvalidNumber   = errors.New("value must be numeric with at most 2 decimal places")
	ErrInvalidCategory = errors.New("invalid category")
	ErrNoSuchRow       = errors.New("measurement row index out of range")
	ErrNoSuchColumn    = errors.New("observation index out of range")
)

// LotInfo 选中的GR行项属性（复制进会话的部分）
type LotInfo struct {
	SLNo       int
	PartNumber string
	MPN        string
	BatchNo    string
	PONo       string
	Vendor     string
	TotalQty   int
}

// MeasurementRow 一条尺寸检验行
// Min/Max are rendered strings so an empty basic dimension shows an empty band.
type MeasurementRow struct {
	SLNo           int      `json:"slno"`
	BasicDimension string   `json:"basic_dimension"`
	Min            string   `json:"min"`
	Max            string   `json:"max"`
	Observed       []string `json:"observed"`
}

// ObservationResult 单个观测值的判定
type ObservationResult struct {
	Sample string  `json:"sample"`
	Value  float64 `json:"value"`
	Status Result  `json:"status"`
}

// Summary 会话内全部观测的合格/不合格计数
type Summary struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// Session 一次来料检验会话
// Holds the working state for one selected GR lot. Derived values (sample
// quantity, tolerance bands, rejected count, summary) are recomputed from the
// stored fields on every read instead of being cached.
type Session struct {
	LotSLNo         int
	PartNumber      string
	MPN             string
	BatchNo         string
	PONo            string
	Vendor          string
	TotalQty        int
	SamplingPercent float64
	AcceptedRaw     string // raw accepted-in-sample entry, "" when unset
	Category        Category
	InspectedBy     string
	InspectionDate  string
	ControlNo       string
	Remarks         string
	SpecialProcess  string
	Hold            HoldState
	Rows            []MeasurementRow

	cfg Config
}

// NewSession 基于选中的GR行项创建检验会话
func NewSession(lot LotInfo, cfg Config) *Session {
	s := &Session{
		LotSLNo:         lot.SLNo,
		PartNumber:      lot.PartNumber,
		MPN:             lot.MPN,
		BatchNo:         lot.BatchNo,
		PONo:            lot.PONo,
		Vendor:          lot.Vendor,
		TotalQty:        lot.TotalQty,
		SamplingPercent: cfg.DefaultSamplingPercent,
		Hold:            ProcessActive,
		cfg:             cfg,
	}
	s.Rows = []MeasurementRow{s.newRow(1)}
	return s
}

func (s *Session) newRow(slno int) MeasurementRow {
	return MeasurementRow{
		SLNo:     slno,
		Observed: make([]string, s.cfg.SampleColumns(s.Category)),
	}
}

// SampleQty 派生样本数量
func (s *Session) SampleQty() int {
	return ComputeSampleQuantity(s.TotalQty, s.SamplingPercent)
}

// AcceptedInSample 样本合格数；未填写时为nil
func (s *Session) AcceptedInSample() *int {
	if s.AcceptedRaw == "" {
		return nil
	}
	n, err := strconv.Atoi(s.AcceptedRaw)
	if err != nil {
		return nil
	}
	return &n
}

// RejectedInSample 派生样本不合格数；合格数未填写时为nil
func (s *Session) RejectedInSample() *int {
	return RejectedInSample(s.SampleQty(), s.AcceptedInSample())
}

// SetSamplingPercent 设置抽样百分比
// Non-numeric or negative input is rejected silently and leaves the previous
// value (and therefore the derived sample quantity) unchanged.
func (s *Session) SetSamplingPercent(raw string) {
	if raw == "" {
		return
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || p < 0 {
		return
	}
	s.SamplingPercent = p
}

// SetAcceptedInSample 设置样本合格数，空串表示清除
func (s *Session) SetAcceptedInSample(raw string) error {
	if raw == "" {
		s.AcceptedRaw = ""
		return nil
	}
	if _, err := strconv.Atoi(raw); err != nil {
		return ErrInvalidNumber
	}
	s.AcceptedRaw = raw
	return nil
}

// SetCategory 设置检验类别；暂停期间禁止
// Changing the category resizes every row's observation columns, keeping the
// already-entered prefix.
func (s *Session) SetCategory(raw string) error {
	if s.Hold.OnHold() {
		return ErrProcessOnHold
	}
	cat := Category(raw)
	switch cat {
	case "", CategoryMechanical, CategoryElectrical, CategoryElectromechanical:
	default:
		return ErrInvalidCategory
	}
	s.Category = cat
	cols := s.cfg.SampleColumns(cat)
	for i := range s.Rows {
		observed := make([]string, cols)
		copy(observed, s.Rows[i].Observed)
		s.Rows[i].Observed = observed
	}
	return nil
}

// InsertRow 在指定行号之后插入新行（pos为0时插在最前）
func (s *Session) InsertRow(pos int) error {
	if s.Hold.OnHold() {
		return ErrProcessOnHold
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.Rows) {
		pos = len(s.Rows)
	}
	rows := make([]MeasurementRow, 0, len(s.Rows)+1)
	rows = append(rows, s.Rows[:pos]...)
	rows = append(rows, s.newRow(0))
	rows = append(rows, s.Rows[pos:]...)
	s.Rows = rows
	s.renumber()
	return nil
}

// DeleteRow 删除指定行；仅剩一行时不做任何事
func (s *Session) DeleteRow(index int) error {
	if s.Hold.OnHold() {
		return ErrProcessOnHold
	}
	if index < 0 || index >= len(s.Rows) {
		return ErrNoSuchRow
	}
	if len(s.Rows) == 1 {
		return nil
	}
	s.Rows = append(s.Rows[:index], s.Rows[index+1:]...)
	s.renumber()
	return nil
}

func (s *Session) renumber() {
	for i := range s.Rows {
		s.Rows[i].SLNo = i + 1
	}
}

// SetBasicDimension 设置基本尺寸并推导公差带
// An empty entry clears the band; input failing the 2-decimal pattern is
// rejected without touching the row.
func (s *Session) SetBasicDimension(rowIdx int, raw string) error {
	if s.Hold.OnHold() {
		return ErrProcessOnHold
	}
	if rowIdx < 0 || rowIdx >= len(s.Rows) {
		return ErrNoSuchRow
	}
	if !ValidDecimal(raw) {
		return ErrInvalidNumber
	}
	row := &s.Rows[rowIdx]
	if raw == "" {
		row.BasicDimension = ""
		row.Min = ""
		row.Max = ""
		return nil
	}
	nominal, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ErrInvalidNumber
	}
	row.BasicDimension = raw
	min, max := ToleranceBand(nominal, s.cfg.GeneralTolerance)
	row.Min = formatDimension(min)
	row.Max = formatDimension(max)
	return nil
}

// SetObserved 记录一个观测值，空串表示清除
func (s *Session) SetObserved(rowIdx, obsIdx int, raw string) error {
	if s.Hold.OnHold() {
		return ErrProcessOnHold
	}
	if rowIdx < 0 || rowIdx >= len(s.Rows) {
		return ErrNoSuchRow
	}
	row := &s.Rows[rowIdx]
	if obsIdx < 0 || obsIdx >= len(row.Observed) {
		return ErrNoSuchColumn
	}
	if !ValidDecimal(raw) {
		return ErrInvalidNumber
	}
	if raw != "" {
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return ErrInvalidNumber
		}
	}
	row.Observed[obsIdx] = raw
	return nil
}

// Results 逐项判定全部非空观测值
// Rows without a derived band and empty observations contribute nothing.
func (s *Session) Results() []ObservationResult {
	var results []ObservationResult
	for _, row := range s.Rows {
		if row.Min == "" || row.Max == "" {
			continue
		}
		min, errMin := strconv.ParseFloat(row.Min, 64)
		max, errMax := strconv.ParseFloat(row.Max, 64)
		if errMin != nil || errMax != nil {
			continue
		}
		for j, raw := range row.Observed {
			if raw == "" {
				continue
			}
			val, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			results = append(results, ObservationResult{
				Sample: fmt.Sprintf("Row %d - Sample %d", row.SLNo, j+1),
				Value:  val,
				Status: Classify(val, min, max),
			})
		}
	}
	return results
}

// Summarize 汇总合格/不合格计数
func (s *Session) Summarize() Summary {
	var sum Summary
	for _, r := range s.Results() {
		if r.Status == ResultAccepted {
			sum.Accepted++
		} else {
			sum.Rejected++
		}
	}
	return sum
}

// SessionView 会话快照（含派生字段），供接口层返回
type SessionView struct {
	LotSLNo          int              `json:"lot_slno"`
	PartNumber       string           `json:"part_number"`
	MPN              string           `json:"mpn"`
	BatchNo          string           `json:"batch_no"`
	PONo             string           `json:"po_no"`
	Vendor           string           `json:"vendor"`
	TotalQty         int              `json:"total_qty"`
	SamplingPercent  float64          `json:"sampling_percent"`
	SampleQty        int              `json:"sample_qty"`
	AcceptedInSample string           `json:"accepted_in_sample"`
	RejectedInSample string           `json:"rejected_in_sample"`
	Category         Category         `json:"category"`
	InspectedBy      string           `json:"inspected_by"`
	InspectionDate   string           `json:"inspection_date"`
	ControlNo        string           `json:"control_no"`
	Remarks          string           `json:"remarks"`
	SpecialProcess   string           `json:"special_process"`
	IndenterFlag     bool             `json:"indenter_intervention"`
	ProcessOnHold    bool             `json:"process_on_hold"`
	Rows             []MeasurementRow `json:"rows"`
	Summary          Summary          `json:"summary"`
}

// Snapshot 生成只读快照
func (s *Session) Snapshot() SessionView {
	rejected := ""
	if rej := s.RejectedInSample(); rej != nil {
		rejected = strconv.Itoa(*rej)
	}
	return SessionView{
		LotSLNo:          s.LotSLNo,
		PartNumber:       s.PartNumber,
		MPN:              s.MPN,
		BatchNo:          s.BatchNo,
		PONo:             s.PONo,
		Vendor:           s.Vendor,
		TotalQty:         s.TotalQty,
		SamplingPercent:  s.SamplingPercent,
		SampleQty:        s.SampleQty(),
		AcceptedInSample: strings.TrimSpace(s.AcceptedRaw),
		RejectedInSample: rejected,
		Category:         s.Category,
		InspectedBy:      s.InspectedBy,
		InspectionDate:   s.InspectionDate,
		ControlNo:        s.ControlNo,
		Remarks:          s.Remarks,
		SpecialProcess:   s.SpecialProcess,
		IndenterFlag:     s.Hold.IndenterIntervention(),
		ProcessOnHold:    s.Hold.OnHold(),
		Rows:             s.Rows,
		Summary:          s.Summarize(),
	}
}

package engine

// HoldState 工序暂停状态机
// The indenter-intervention flag and the process-on-hold flag always move
// together, so they are modelled as one state instead of two booleans.
type HoldState string

const (
	ProcessActive HoldState = "active"
	ProcessOnHold HoldState = "on_hold"
)

// IndenterIntervention 是否已标记需要申购人介入
func (h HoldState) IndenterIntervention() bool {
	return h == ProcessOnHold
}

// OnHold 是否处于暂停状态
func (h HoldState) OnHold() bool {
	return h == ProcessOnHold
}

// RequireIndenterIntervention 标记需要申购人介入：Active → OnHold
// Both coupled flags flip in this single transition.
func (s *Session) RequireIndenterIntervention() {
	s.Hold = ProcessOnHold
}

// ResumeProcess 申购人响应后恢复检验：OnHold → Active
// There is no automatic resume; only this explicit operator action clears the hold.
func (s *Session) ResumeProcess() {
	s.Hold = ProcessActive
}

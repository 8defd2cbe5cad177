package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/voltaic/iqc/internal/iqc/engine"
	"github.com/voltaic/iqc/internal/iqc/repository"
	"github.com/voltaic/iqc/internal/iqc/service"
)

// SessionHandler 检验会话处理器
type SessionHandler struct {
	svc *service.SessionService
}

func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// respondSessionError 会话类错误统一映射
func respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoSession):
		NotFound(c, "当前没有检验会话，请先选择批次")
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "批次不存在")
	case errors.Is(err, engine.ErrProcessOnHold):
		Conflict(c, "工序已暂停，等待申购人响应")
	case errors.Is(err, engine.ErrInvalidNumber),
		errors.Is(err, engine.ErrInvalidCategory),
		errors.Is(err, engine.ErrNoSuchRow),
		errors.Is(err, engine.ErrNoSuchColumn):
		BadRequest(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// SelectLot 选择批次并初始化会话
// POST /api/v1/iqc/sessions {"slno": 1}
func (h *SessionHandler) SelectLot(c *gin.Context) {
	var req struct {
		SLNo int `json:"slno" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.SelectLot(c.Request.Context(), GetUserID(c), GetUserName(c), req.SLNo)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Created(c, view)
}

// GetSession 会话快照
// GET /api/v1/iqc/sessions/current
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.svc.Snapshot(GetUserID(c))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, view)
}

// ClearSession 清除会话
// DELETE /api/v1/iqc/sessions/current
func (h *SessionHandler) ClearSession(c *gin.Context) {
	h.svc.ClearSession(GetUserID(c))
	Success(c, nil)
}

// UpdateForm 更新表单字段
// PUT /api/v1/iqc/sessions/current
func (h *SessionHandler) UpdateForm(c *gin.Context) {
	var req service.FormUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.UpdateForm(GetUserID(c), &req)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, view)
}

// SetSamplingPercent 设置抽样百分比
// PUT /api/v1/iqc/sessions/current/sampling-percent {"value": "10"}
func (h *SessionHandler) SetSamplingPercent(c *gin.Context) {
	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.SetSamplingPercent(GetUserID(c), req.Value)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, view)
}

// SetAccepted 设置样本合格数
// PUT /api/v1/iqc/sessions/current/accepted {"value": "12"}
func (h *SessionHandler) SetAccepted(c *gin.Context) {
	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.SetAcceptedInSample(GetUserID(c), req.Value)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, view)
}

// SetCategory 设置检验类别
// PUT /api/v1/iqc/sessions/current/category {"value": "Mechanical"}
func (h *SessionHandler) SetCategory(c *gin.Context) {
	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.SetCategory(GetUserID(c), req.Value)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, view)
}

// InsertRow 插入检验行
// POST /api/v1/iqc/sessions/current/rows {"position": 1}
func (h *SessionHandler) InsertRow(c *gin.Context) {
	var req struct {
		Position int `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.InsertRow(GetUserID(c), req.Position)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Created(c, view)
}

// DeleteRow 删除检验行
// DELETE /api/v1/iqc/sessions/current/rows/:index
func (h *SessionHandler) DeleteRow(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		BadRequest(c, "无效的行号")
		return
	}

	view, err := h.svc.DeleteRow(GetUserID(c), index)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, view)
}

// SetDimension 设置基本尺寸
// PUT /api/v1/iqc/sessions/current/rows/:index/dimension {"value": "50.00"}
func (h *SessionHandler) SetDimension(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		BadRequest(c, "无效的行号")
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.SetBasicDimension(GetUserID(c), index, req.Value)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, view)
}

// SetObservation 记录观测值
// PUT /api/v1/iqc/sessions/current/rows/:index/observations/:obs {"value": "50.12"}
func (h *SessionHandler) SetObservation(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		BadRequest(c, "无效的行号")
		return
	}
	obs, err := strconv.Atoi(c.Param("obs"))
	if err != nil {
		BadRequest(c, "无效的观测列号")
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.SetObserved(GetUserID(c), index, obs, req.Value)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, view)
}

// GetResults 逐项判定结果
// GET /api/v1/iqc/sessions/current/results
func (h *SessionHandler) GetResults(c *gin.Context) {
	results, summary, err := h.svc.Results(GetUserID(c))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, gin.H{
		"results": results,
		"summary": summary,
	})
}

// Hold 标记申购人介入并暂停
// POST /api/v1/iqc/sessions/current/hold
func (h *SessionHandler) Hold(c *gin.Context) {
	view, err := h.svc.Hold(c.Request.Context(), GetUserID(c), GetUserName(c))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, view)
}

// Resume 恢复工序
// POST /api/v1/iqc/sessions/current/resume
func (h *SessionHandler) Resume(c *gin.Context) {
	view, err := h.svc.Resume(c.Request.Context(), GetUserID(c), GetUserName(c))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	Success(c, view)
}

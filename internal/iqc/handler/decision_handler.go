package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voltaic/iqc/internal/iqc/engine"
	"github.com/voltaic/iqc/internal/iqc/service"
)

// DecisionHandler 最终判定处理器
type DecisionHandler struct {
	svc *service.DecisionService
}

func NewDecisionHandler(svc *service.DecisionService) *DecisionHandler {
	return &DecisionHandler{svc: svc}
}

// Submit 提交最终判定
// POST /api/v1/iqc/sessions/current/decision {"type": "accept"}
func (h *DecisionHandler) Submit(c *gin.Context) {
	var req struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	decision := engine.DecisionType(req.Type)
	if decision != engine.DecisionAccept && decision != engine.DecisionReject {
		BadRequest(c, "判定类型必须为 accept 或 reject")
		return
	}

	rec, err := h.svc.Submit(c.Request.Context(), GetUserID(c), GetUserName(c), decision)
	if err != nil {
		var verr *engine.ValidationError
		switch {
		case errors.As(err, &verr):
			// 校验失败消息原样返回给操作员
			BadRequest(c, verr.Message)
		case errors.Is(err, service.ErrNoSession):
			NotFound(c, "当前没有检验会话，请先选择批次")
		default:
			InternalError(c, "提交判定失败: "+err.Error())
		}
		return
	}
	Created(c, rec)
}

// ListDecisions 判定台账
// GET /api/v1/iqc/decisions?result=xxx&part_number=xxx
func (h *DecisionHandler) ListDecisions(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"result":      c.Query("result"),
		"part_number": c.Query("part_number"),
	}

	items, total, err := h.svc.ListDecisions(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取判定台账失败: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

// ExportDecisions 导出判定台账xlsx
// GET /api/v1/iqc/decisions/export?result=xxx
func (h *DecisionHandler) ExportDecisions(c *gin.Context) {
	filters := map[string]string{
		"result":      c.Query("result"),
		"part_number": c.Query("part_number"),
	}

	f, err := h.svc.ExportDecisions(c.Request.Context(), filters)
	if err != nil {
		InternalError(c, "导出判定台账失败: "+err.Error())
		return
	}

	filename := fmt.Sprintf("iqc_decisions_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "写出文件失败: "+err.Error())
	}
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/voltaic/iqc/internal/iqc/repository"
	"github.com/voltaic/iqc/internal/iqc/service"
)

// TraceHandler 追溯处理器
type TraceHandler struct {
	svc *service.TraceService
}

func NewTraceHandler(svc *service.TraceService) *TraceHandler {
	return &TraceHandler{svc: svc}
}

// GetTimeline 追溯时间线
// GET /api/v1/iqc/traceability?ref_no=RCPT-001
func (h *TraceHandler) GetTimeline(c *gin.Context) {
	refNo := c.Query("ref_no")
	if refNo == "" {
		BadRequest(c, "缺少参数 ref_no")
		return
	}

	tl, err := h.svc.GetTimeline(c.Request.Context(), refNo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Reference not found.")
			return
		}
		InternalError(c, "Fetch failed.")
		return
	}
	Success(c, tl)
}

// ListReferences 参考号列表，用于搜索建议
// GET /api/v1/iqc/reflist
func (h *TraceHandler) ListReferences(c *gin.Context) {
	refs, err := h.svc.ListReferences(c.Request.Context())
	if err != nil {
		InternalError(c, "获取参考号列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"References": refs})
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/voltaic/iqc/internal/iqc/repository"
	"github.com/voltaic/iqc/internal/iqc/service"
)

// LotHandler 收货批次处理器
type LotHandler struct {
	svc *service.LotService
}

func NewLotHandler(svc *service.LotService) *LotHandler {
	return &LotHandler{svc: svc}
}

// ListLots 待检批次列表
// GET /api/v1/iqc/lots?status=xxx&vendor=xxx&gr_no=xxx
func (h *LotHandler) ListLots(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status": c.Query("status"),
		"vendor": c.Query("vendor"),
		"gr_no":  c.Query("gr_no"),
	}

	items, total, fromFixture, err := h.svc.ListLots(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取批次列表失败: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	c.Header("X-Lot-Source", lotSource(fromFixture))
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

func lotSource(fromFixture bool) string {
	if fromFixture {
		return "fixture"
	}
	return "live"
}

// GetSubcontract 批次外协明细
// GET /api/v1/iqc/lots/:slno/subcontract
func (h *LotHandler) GetSubcontract(c *gin.Context) {
	slno, err := strconv.Atoi(c.Param("slno"))
	if err != nil {
		BadRequest(c, "无效的批次序号")
		return
	}

	items, err := h.svc.GetSubcontractDetails(c.Request.Context(), slno)
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "批次不存在")
			return
		}
		InternalError(c, "获取外协明细失败: "+err.Error())
		return
	}
	Success(c, items)
}

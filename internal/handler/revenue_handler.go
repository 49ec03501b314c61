package handler

import (
	"net/http"
	"strconv"

	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RevenueHandler struct {
	revenueLogic *logic.RevenueLogic
}

func NewRevenueHandler(db *gorm.DB, cfg *config.Config) *RevenueHandler {
	return &RevenueHandler{
		revenueLogic: logic.NewRevenueLogic(db, cfg),
	}
}

// AddRevenue 追加待分配收益，仅管理员
func (h *RevenueHandler) AddRevenue(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req struct {
		Amount int64  `json:"amount" binding:"required"`
		Source string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.revenueLogic.AddRevenue(caller, id, req.Amount, req.Source); err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "收益已入队", nil)
}

// Distribute 执行一轮收益分配，仅管理员
func (h *RevenueHandler) Distribute(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	record, err := h.revenueLogic.Distribute(caller, id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "分配完成", ToDistributionResponse(record))
}

// GetPendingRevenue 查询项目待分配收益
func (h *RevenueHandler) GetPendingRevenue(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	entries, total, err := h.revenueLogic.PendingRevenue(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
	})
}

// ListDistributions 查询项目历史分配记录
func (h *RevenueHandler) ListDistributions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	records, err := h.revenueLogic.ListDistributions(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToDistributionResponseList(records))
}

// GetBalance 查询账户余额
func (h *RevenueHandler) GetBalance(c *gin.Context) {
	addr, ok := parseAddressParam(c, "address")
	if !ok {
		return
	}

	amount, err := h.revenueLogic.GetBalance(addr)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": addr.Hex(),
		"balance": amount,
	})
}

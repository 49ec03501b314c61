package handler

import (
	"net/http"
	"strconv"

	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/logic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	paymentLogic *logic.PaymentLogic
}

func NewPaymentHandler(db *gorm.DB, cfg *config.Config) *PaymentHandler {
	claims := logic.NewClaimLogic(db, cfg)
	attestations := logic.NewAttestationLogic(db, cfg)
	return &PaymentHandler{
		paymentLogic: logic.NewPaymentLogic(db, cfg, claims, attestations),
	}
}

// ProcessPayment 处理已验证的支付并铸造权益凭证，仅管理员（中继）
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req struct {
		ProjectId  int64  `json:"project_id" binding:"required"`
		Investor   string `json:"investor" binding:"required"`
		Amount     int64  `json:"amount"`
		PaymentRef string `json:"payment_ref" binding:"required"`
		JoinPrice  int64  `json:"join_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !common.IsHexAddress(req.Investor) {
		ErrorResponse(c, http.StatusBadRequest, "无效的投资人地址")
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	record, err := h.paymentLogic.ProcessPayment(
		caller, req.ProjectId, common.HexToAddress(req.Investor),
		req.Amount, req.PaymentRef, req.JoinPrice)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "支付已入账", ToPaymentRecordResponse(record))
}

// GetPaymentRecords 查询项目已处理支付记录
func (h *PaymentHandler) GetPaymentRecords(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	records, total, err := h.paymentLogic.GetPaymentRecords(id, page, pageSize)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": ToPaymentRecordResponseList(records),
		"pagination": Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}

package handler

import (
	"net/http"

	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/logic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AttestationHandler struct {
	attestationLogic *logic.AttestationLogic
}

func NewAttestationHandler(db *gorm.DB, cfg *config.Config) *AttestationHandler {
	return &AttestationHandler{
		attestationLogic: logic.NewAttestationLogic(db, cfg),
	}
}

// AuthorizeVerifier 增删授权见证人，仅管理员
func (h *AttestationHandler) AuthorizeVerifier(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
		Allowed *bool  `json:"allowed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !common.IsHexAddress(req.Address) {
		ErrorResponse(c, http.StatusBadRequest, "无效的见证人地址")
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.attestationLogic.AuthorizeVerifier(caller, common.HexToAddress(req.Address), *req.Allowed); err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "见证人授权已更新", nil)
}

// CreateMilestoneAttestation 登记签名的里程碑见证
func (h *AttestationHandler) CreateMilestoneAttestation(c *gin.Context) {
	var req struct {
		ProjectId   int64  `json:"project_id" binding:"required"`
		Seq         int    `json:"seq"`
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		ProofRef    string `json:"proof_ref" binding:"required"`
		CreatedAt   int64  `json:"created_at" binding:"required"` // 见证人签名时使用的Unix时间
		Signature   string `json:"signature" binding:"required"`  // hex编码的65字节签名
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	signature, err := hexutil.Decode(req.Signature)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的签名编码")
		return
	}

	key, err := h.attestationLogic.CreateMilestoneAttestation(
		req.ProjectId, req.Seq, req.Title, req.Description, req.ProofRef, req.CreatedAt, signature)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "见证已登记", gin.H{"key": key})
}

// VerifyMilestoneAttestation 查询见证键是否有效
func (h *AttestationHandler) VerifyMilestoneAttestation(c *gin.Context) {
	key := c.Param("key")

	verified, err := h.attestationLogic.VerifyMilestoneAttestation(key)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":      key,
		"verified": verified,
	})
}

// VerifyPayment 登记外部支付凭证，仅管理员。重复登记报错。
func (h *AttestationHandler) VerifyPayment(c *gin.Context) {
	var req struct {
		TxRef        string `json:"tx_ref" binding:"required"`
		Sender       string `json:"sender" binding:"required"`
		Recipient    string `json:"recipient" binding:"required"`
		Amount       int64  `json:"amount" binding:"required"`
		ExternalTime int64  `json:"external_time"`
		BlockNum     int64  `json:"block_num"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	err := h.attestationLogic.VerifyPayment(caller, logic.PaymentProofInput{
		TxRef:        req.TxRef,
		Sender:       common.HexToAddress(req.Sender),
		Recipient:    common.HexToAddress(req.Recipient),
		Amount:       req.Amount,
		ExternalTime: req.ExternalTime,
		BlockNum:     req.BlockNum,
	})
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "支付凭证已登记", nil)
}

// BatchVerifyPayments 批量登记支付凭证，已存在的跳过
func (h *AttestationHandler) BatchVerifyPayments(c *gin.Context) {
	var req struct {
		Payments []struct {
			TxRef        string `json:"tx_ref" binding:"required"`
			Sender       string `json:"sender" binding:"required"`
			Recipient    string `json:"recipient" binding:"required"`
			Amount       int64  `json:"amount" binding:"required"`
			ExternalTime int64  `json:"external_time"`
			BlockNum     int64  `json:"block_num"`
		} `json:"payments" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	inputs := make([]logic.PaymentProofInput, len(req.Payments))
	for i, p := range req.Payments {
		inputs[i] = logic.PaymentProofInput{
			TxRef:        p.TxRef,
			Sender:       common.HexToAddress(p.Sender),
			Recipient:    common.HexToAddress(p.Recipient),
			Amount:       p.Amount,
			ExternalTime: p.ExternalTime,
			BlockNum:     p.BlockNum,
		}
	}

	stored, err := h.attestationLogic.BatchVerifyPayments(caller, inputs)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stored":  stored,
		"skipped": len(inputs) - stored,
	})
}

// IsPaymentVerified 查询交易引用是否已验证
func (h *AttestationHandler) IsPaymentVerified(c *gin.Context) {
	ref := c.Param("ref")

	verified, err := h.attestationLogic.IsPaymentVerified(ref)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tx_ref":   ref,
		"verified": verified,
	})
}

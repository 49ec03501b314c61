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

type ClaimHandler struct {
	claimLogic *logic.ClaimLogic
}

func NewClaimHandler(db *gorm.DB, cfg *config.Config) *ClaimHandler {
	return &ClaimHandler{
		claimLogic: logic.NewClaimLogic(db, cfg),
	}
}

// GetClaim 获取权益凭证详情
func (h *ClaimHandler) GetClaim(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的凭证ID")
		return
	}

	claim, err := h.claimLogic.GetClaim(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToClaimResponse(claim))
}

// ListClaimsByOwner 按所有者查询凭证
func (h *ClaimHandler) ListClaimsByOwner(c *gin.Context) {
	owner, ok := parseAddressParam(c, "address")
	if !ok {
		return
	}

	claims, err := h.claimLogic.ListByOwner(owner)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToClaimResponseList(claims))
}

// ListClaimsByProject 按项目查询凭证
func (h *ClaimHandler) ListClaimsByProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	claims, err := h.claimLogic.ListByProject(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToClaimResponseList(claims))
}

// TransferClaim 权益凭证转让，设计上永远失败
func (h *ClaimHandler) TransferClaim(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的凭证ID")
		return
	}

	var req struct {
		To string `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.claimLogic.Transfer(caller, id, common.HexToAddress(req.To)); err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "凭证已转让", nil)
}

// SlashClaim 罚没凭证，仅管理员
func (h *ClaimHandler) SlashClaim(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的凭证ID")
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.claimLogic.Slash(caller, id); err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "凭证已罚没", nil)
}

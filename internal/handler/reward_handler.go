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

type RewardHandler struct {
	rewardLogic *logic.RewardLogic
}

func NewRewardHandler(db *gorm.DB, cfg *config.Config) *RewardHandler {
	claims := logic.NewClaimLogic(db, cfg)
	return &RewardHandler{
		rewardLogic: logic.NewRewardLogic(db, cfg, claims),
	}
}

// Stake 质押权益凭证
func (h *RewardHandler) Stake(c *gin.Context) {
	var req struct {
		ClaimId int64 `json:"claim_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	reward, err := h.rewardLogic.Stake(caller, req.ClaimId)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "质押成功", ToRewardResponse(reward))
}

// Burn 销毁奖励代币，凭证恢复收益资格
func (h *RewardHandler) Burn(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的代币ID")
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.rewardLogic.Burn(caller, id); err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "代币已销毁", nil)
}

// TransferReward 转让奖励代币
func (h *RewardHandler) TransferReward(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的代币ID")
		return
	}

	var req struct {
		To string `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !common.IsHexAddress(req.To) {
		ErrorResponse(c, http.StatusBadRequest, "无效的接收地址")
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.rewardLogic.TransferReward(caller, id, common.HexToAddress(req.To)); err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "代币已转让", nil)
}

// GetReward 获取奖励代币详情
func (h *RewardHandler) GetReward(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的代币ID")
		return
	}

	reward, err := h.rewardLogic.GetReward(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToRewardResponse(reward))
}

// ListRewardsByOwner 按持有人查询活跃奖励代币
func (h *RewardHandler) ListRewardsByOwner(c *gin.Context) {
	owner, ok := parseAddressParam(c, "address")
	if !ok {
		return
	}

	rewards, err := h.rewardLogic.ListRewardsByOwner(owner)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToRewardResponseList(rewards))
}

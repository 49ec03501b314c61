package handler

import (
	"net/http"
	"strconv"

	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MilestoneHandler struct {
	milestoneLogic *logic.MilestoneLogic
}

func NewMilestoneHandler(db *gorm.DB, cfg *config.Config) *MilestoneHandler {
	attestations := logic.NewAttestationLogic(db, cfg)
	return &MilestoneHandler{
		milestoneLogic: logic.NewMilestoneLogic(db, cfg, attestations),
	}
}

// AddMilestone 追加项目里程碑
func (h *MilestoneHandler) AddMilestone(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req struct {
		Title        string `json:"title" binding:"required"`
		Description  string `json:"description"`
		UnlockAmount int64  `json:"unlock_amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	milestone, err := h.milestoneLogic.AddMilestone(caller, id, req.Title, req.Description, req.UnlockAmount)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "里程碑创建成功", milestone)
}

// UnlockMilestone 解锁里程碑，需要已验证的见证键
func (h *MilestoneHandler) UnlockMilestone(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}
	seq, err := strconv.Atoi(c.Param("seq"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的里程碑序号")
		return
	}

	var req struct {
		AttestationKey string `json:"attestation_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.milestoneLogic.UnlockMilestone(caller, id, seq, req.AttestationKey); err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "里程碑已解锁", nil)
}

// GetProjectMilestones 查询项目里程碑
func (h *MilestoneHandler) GetProjectMilestones(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	milestones, err := h.milestoneLogic.GetProjectMilestones(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", milestones)
}

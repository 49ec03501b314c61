package handler

import (
	"net/http"
	"strconv"

	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/logic"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectLogic *logic.ProjectLogic
}

func NewProjectHandler(db *gorm.DB, cfg *config.Config) *ProjectHandler {
	return &ProjectHandler{
		projectLogic: logic.NewProjectLogic(db, cfg),
	}
}

// CreateProject 创建项目
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req struct {
		Title        string `json:"title" binding:"required"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		TargetAmount int64  `json:"target_amount" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	project := model.ProjectModel{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		TargetAmount: req.TargetAmount,
		Creator:      caller,
	}
	if err := h.projectLogic.CreateProject(&project); err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "项目创建成功", ToProjectResponse(&project))
}

// GetProjects 获取项目列表
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	projects, total, err := h.projectLogic.GetProjects(page, pageSize)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": ToProjectResponseList(projects),
		"pagination": Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}

// GetProject 获取单个项目详情
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	project, err := h.projectLogic.GetProject(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToProjectResponse(project))
}

// SetProjectActive 启停项目，仅管理员
func (h *ProjectHandler) SetProjectActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.projectLogic.SetActive(caller, id, *req.Active); err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "项目状态已更新", nil)
}

// GetProjectStats 获取项目统计信息
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	stats, err := h.projectLogic.GetProjectStats(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// GetAllProjectStats 获取平台汇总统计
func (h *ProjectHandler) GetAllProjectStats(c *gin.Context) {
	stats, err := h.projectLogic.GetAllProjectStats()
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// parseAddressParam 解析路径中的地址参数
func parseAddressParam(c *gin.Context, name string) (common.Address, bool) {
	raw := c.Param(name)
	if !common.IsHexAddress(raw) {
		ErrorResponse(c, http.StatusBadRequest, "无效的地址参数")
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

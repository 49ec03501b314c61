package logic

import (
	"errors"
	"fmt"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// ProjectLogic 项目业务逻辑
type ProjectLogic struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewProjectLogic 创建项目业务逻辑
func NewProjectLogic(db *gorm.DB, cfg *config.Config) *ProjectLogic {
	return &ProjectLogic{db: db, cfg: cfg}
}

// CreateProject 创建项目，创建后不可删除
func (p *ProjectLogic) CreateProject(project *model.ProjectModel) error {
	if err := p.validateProject(project); err != nil {
		return err
	}

	project.Active = true
	project.RaisedAmount = 0

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	return p.db.Create(project).Error
}

// SetActive 启停项目，仅管理员
func (p *ProjectLogic) SetActive(caller common.Address, projectId int64, active bool) error {
	if !p.cfg.Admin.IsAdmin(caller) {
		return apperr.ErrAdminOnly
	}

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	return p.db.Transaction(func(tx *gorm.DB) error {
		var project model.ProjectModel
		if err := tx.First(&project, projectId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrProjectNotFound
			}
			return err
		}
		return tx.Model(&project).Update("active", active).Error
	})
}

// GetProject 获取项目详情
func (p *ProjectLogic) GetProject(id int64) (*model.ProjectModel, error) {
	var project model.ProjectModel
	if err := p.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrProjectNotFound
		}
		return nil, fmt.Errorf("获取项目详情失败: %w", err)
	}
	return &project, nil
}

// GetProjects 获取项目列表
func (p *ProjectLogic) GetProjects(page, pageSize int) ([]model.ProjectModel, int64, error) {
	var projects []model.ProjectModel
	var total int64

	if err := p.db.Model(&model.ProjectModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := p.db.Offset(offset).Limit(pageSize).
		Order("id DESC").Find(&projects).Error; err != nil {
		return nil, 0, fmt.Errorf("获取项目列表失败: %w", err)
	}

	return projects, total, nil
}

// GetProjectStats 获取项目统计信息
func (p *ProjectLogic) GetProjectStats(id int64) (map[string]interface{}, error) {
	project, err := p.GetProject(id)
	if err != nil {
		return nil, err
	}

	var claimCount int64
	if err := p.db.Model(&model.ClaimModel{}).
		Where("project_id = ?", id).Count(&claimCount).Error; err != nil {
		return nil, fmt.Errorf("获取凭证数量失败: %w", err)
	}

	var investorCount int64
	if err := p.db.Model(&model.ClaimModel{}).
		Where("project_id = ?", id).
		Distinct("owner").Count(&investorCount).Error; err != nil {
		return nil, fmt.Errorf("获取投资人数量失败: %w", err)
	}

	var stakedCount int64
	if err := p.db.Model(&model.ClaimModel{}).
		Where("project_id = ? AND status = ?", id, model.ClaimStatusStaked).
		Count(&stakedCount).Error; err != nil {
		return nil, fmt.Errorf("获取质押数量失败: %w", err)
	}

	var pendingRevenue int64
	if err := p.db.Model(&model.RevenueEntryModel{}).
		Where("project_id = ?", id).
		Select("COALESCE(SUM(amount), 0)").Scan(&pendingRevenue).Error; err != nil {
		return nil, fmt.Errorf("获取待分配收益失败: %w", err)
	}

	// 计算募资完成百分比
	completionPercentage := float64(0)
	if project.TargetAmount > 0 {
		completionPercentage = float64(project.RaisedAmount) / float64(project.TargetAmount) * 100
	}

	return map[string]interface{}{
		"project_id":            project.Id,
		"raised_amount":         project.RaisedAmount,
		"target_amount":         project.TargetAmount,
		"completion_percentage": completionPercentage,
		"claim_count":           claimCount,
		"investor_count":        investorCount,
		"staked_count":          stakedCount,
		"pending_revenue":       pendingRevenue,
		"active":                project.Active,
	}, nil
}

// GetAllProjectStats 获取平台汇总统计
func (p *ProjectLogic) GetAllProjectStats() (map[string]interface{}, error) {
	var totalProjects int64
	p.db.Model(&model.ProjectModel{}).Count(&totalProjects)

	var activeProjects int64
	p.db.Model(&model.ProjectModel{}).
		Where("active = ?", true).
		Count(&activeProjects)

	var totalRaised int64
	p.db.Model(&model.ProjectModel{}).
		Select("COALESCE(SUM(raised_amount), 0)").
		Scan(&totalRaised)

	var totalInvestors int64
	p.db.Model(&model.ClaimModel{}).
		Distinct("owner").
		Count(&totalInvestors)

	var totalDistributed int64
	p.db.Model(&model.DistributionRecordModel{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalDistributed)

	return map[string]interface{}{
		"totalProjects":    totalProjects,
		"activeProjects":   activeProjects,
		"totalRaised":      fmt.Sprintf("%d", totalRaised),
		"totalInvestors":   totalInvestors,
		"totalDistributed": fmt.Sprintf("%d", totalDistributed),
	}, nil
}

// validateProject 验证项目数据
func (p *ProjectLogic) validateProject(project *model.ProjectModel) error {
	if project.Title == "" {
		return errors.New("项目标题不能为空")
	}
	if project.TargetAmount <= 0 {
		return errors.New("目标金额必须大于0")
	}
	if project.Creator == (common.Address{}) {
		return errors.New("创建者地址不能为空")
	}
	return nil
}

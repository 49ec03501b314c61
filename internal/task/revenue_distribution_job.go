package task

import (
	"errors"
	"time"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/logger"
	"github.com/AnkithSVaidya/CineFlare/internal/logic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// RevenueDistributionJob 定时收益分配任务。收益滞留超过配置时长的
// 项目自动触发一轮分配，管理员手动分配仍然可用。
type RevenueDistributionJob struct {
	db           *gorm.DB
	config       *config.Config
	revenueLogic *logic.RevenueLogic
	adminAddr    common.Address
}

// NewRevenueDistributionJob 创建收益分配任务
func NewRevenueDistributionJob(db *gorm.DB, cfg *config.Config) *RevenueDistributionJob {
	var adminAddr common.Address
	if len(cfg.Admin.Addresses) > 0 {
		adminAddr = common.HexToAddress(cfg.Admin.Addresses[0])
	}

	return &RevenueDistributionJob{
		db:           db,
		config:       cfg,
		revenueLogic: logic.NewRevenueLogic(db, cfg),
		adminAddr:    adminAddr,
	}
}

// GetName 获取任务名称
func (j *RevenueDistributionJob) GetName() string {
	return "revenue_distribution"
}

// GetSchedule 获取调度配置
func (j *RevenueDistributionJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.DistributeInterval) * time.Second)
}

// Execute 执行任务
func (j *RevenueDistributionJob) Execute() {
	logger.Info("Starting revenue distribution task")

	minAge := time.Duration(j.config.Task.DistributeMinAge) * time.Second
	projectIds, err := j.revenueLogic.StaleProjects(minAge)
	if err != nil {
		logger.Error("Failed to fetch projects with stale revenue: %v", err)
		return
	}

	distributed := 0
	for _, projectId := range projectIds {
		record, err := j.revenueLogic.Distribute(j.adminAddr, projectId)
		if err != nil {
			// 没有活跃凭证的项目留到下轮，不算失败
			if errors.Is(err, apperr.ErrNoActiveClaims) || errors.Is(err, apperr.ErrNoRevenue) {
				logger.Warn("Skipping distribution for project %d: %v", projectId, err)
				continue
			}
			logger.Error("Failed to distribute revenue for project %d: %v", projectId, err)
			continue
		}

		logger.Info("Auto-distributed revenue for project %d: total=%d claims=%d",
			projectId, record.TotalAmount, record.ClaimsPaid)
		distributed++
	}

	logger.Info("Revenue distribution task completed. Distributed %d projects", distributed)
}

package logic

import (
	"errors"
	"time"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/logger"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// MilestoneLogic 里程碑状态机。状态只向前推进：
// Pending→Unlocked 由本引擎执行，Unlocked→Completed 留给外部流程。
type MilestoneLogic struct {
	db           *gorm.DB
	cfg          *config.Config
	attestations *AttestationLogic
}

// NewMilestoneLogic 创建里程碑状态机
func NewMilestoneLogic(db *gorm.DB, cfg *config.Config, attestations *AttestationLogic) *MilestoneLogic {
	return &MilestoneLogic{db: db, cfg: cfg, attestations: attestations}
}

// AddMilestone 给活跃项目追加里程碑，调用者须为项目创建者或管理员
func (m *MilestoneLogic) AddMilestone(caller common.Address, projectId int64, title, description string, unlockAmount int64) (*model.MilestoneModel, error) {
	if unlockAmount <= 0 {
		return nil, apperr.ErrInvalidAmount
	}

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	var milestone *model.MilestoneModel
	err := m.db.Transaction(func(tx *gorm.DB) error {
		var project model.ProjectModel
		if err := tx.First(&project, projectId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrProjectNotFound
			}
			return err
		}
		if !project.Active {
			return apperr.ErrProjectInactive
		}
		if project.Creator != caller && !m.cfg.Admin.IsAdmin(caller) {
			return apperr.ErrNotOwner
		}

		// 项目内序号接在末尾
		var count int64
		if err := tx.Model(&model.MilestoneModel{}).
			Where("project_id = ?", projectId).Count(&count).Error; err != nil {
			return err
		}

		milestone = &model.MilestoneModel{
			ProjectId:    projectId,
			Seq:          int(count),
			Title:        title,
			Description:  description,
			UnlockAmount: unlockAmount,
			Status:       model.MilestoneStatusPending,
		}
		return tx.Create(milestone).Error
	})
	if err != nil {
		return nil, err
	}
	return milestone, nil
}

// UnlockMilestone 解锁里程碑。解锁只开闸，不在此转移任何资金。
// 必须出示一条已验证的见证键，否则 InvalidAttestation。
func (m *MilestoneLogic) UnlockMilestone(caller common.Address, projectId int64, seq int, attestationKey string) error {
	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	return m.db.Transaction(func(tx *gorm.DB) error {
		var project model.ProjectModel
		if err := tx.First(&project, projectId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrProjectNotFound
			}
			return err
		}
		if project.Creator != caller && !m.cfg.Admin.IsAdmin(caller) {
			return apperr.ErrNotOwner
		}

		var milestone model.MilestoneModel
		if err := tx.Where("project_id = ? AND seq = ?", projectId, seq).
			First(&milestone).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrMilestoneNotFound
			}
			return err
		}
		if milestone.Status == model.MilestoneStatusUnlocked {
			return apperr.ErrMilestoneAlreadyUnlocked
		}
		if milestone.Status != model.MilestoneStatusPending {
			return apperr.ErrInvalidTransition
		}

		verified, err := m.attestations.VerifyMilestoneAttestation(attestationKey)
		if err != nil {
			return err
		}
		if !verified {
			return apperr.ErrInvalidAttestation
		}

		now := time.Now()
		if err := tx.Model(&milestone).Updates(map[string]interface{}{
			"status":          model.MilestoneStatusUnlocked,
			"unlocked_at":     &now,
			"attestation_key": attestationKey,
		}).Error; err != nil {
			return err
		}

		logger.Info("Milestone unlocked: project=%d seq=%d", projectId, seq)
		return nil
	})
}

// GetProjectMilestones 查询项目里程碑，按序号排列
func (m *MilestoneLogic) GetProjectMilestones(projectId int64) ([]model.MilestoneModel, error) {
	var milestones []model.MilestoneModel
	if err := m.db.Where("project_id = ?", projectId).
		Order("seq ASC").Find(&milestones).Error; err != nil {
		return nil, err
	}
	return milestones, nil
}

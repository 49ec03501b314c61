package logic

import (
	"errors"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// RewardLogic 质押与奖励代币引擎。质押把凭证转入Staked并铸造
// 可转让的奖励代币，销毁代币是凭证回到Active的唯一路径。
type RewardLogic struct {
	db     *gorm.DB
	cfg    *config.Config
	claims *ClaimLogic
}

// NewRewardLogic 创建质押引擎
func NewRewardLogic(db *gorm.DB, cfg *config.Config, claims *ClaimLogic) *RewardLogic {
	return &RewardLogic{db: db, cfg: cfg, claims: claims}
}

// Stake 质押权益凭证，铸造奖励代币
func (l *RewardLogic) Stake(caller common.Address, claimId int64) (*model.RewardModel, error) {
	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	var reward *model.RewardModel
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var claim model.ClaimModel
		if err := tx.First(&claim, claimId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrClaimNotFound
			}
			return err
		}
		if claim.Owner != caller {
			return apperr.ErrNotOwner
		}
		if claim.Status != model.ClaimStatusActive {
			return apperr.ErrNotActive
		}

		// 1:1配对：同一凭证不允许存在第二个活跃代币
		var count int64
		if err := tx.Model(&model.RewardModel{}).
			Where("claim_id = ? AND active = ?", claimId, true).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.ErrRewardAlreadyExists
		}

		if err := l.claims.setStatus(tx, &claim, model.ClaimStatusStaked); err != nil {
			return err
		}

		reward = &model.RewardModel{
			ClaimId:     claim.Id,
			ProjectId:   claim.ProjectId,
			Owner:       caller,
			BasisPoints: claim.BasisPoints,
			Active:      true,
		}
		return tx.Create(reward).Error
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// Burn 销毁奖励代币，底层凭证恢复Active。
// 资金状态在此转回外部所有者，全程持执行锁。
func (l *RewardLogic) Burn(caller common.Address, rewardId int64) error {
	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		var reward model.RewardModel
		if err := tx.Where("id = ? AND active = ?", rewardId, true).First(&reward).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrRewardNotFound
			}
			return err
		}
		if reward.Owner != caller {
			return apperr.ErrNotOwner
		}

		var claim model.ClaimModel
		if err := tx.First(&claim, reward.ClaimId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrClaimNotFound
			}
			return err
		}

		if err := tx.Model(&reward).Update("active", false).Error; err != nil {
			return err
		}
		return l.claims.setStatus(tx, &claim, model.ClaimStatusActive)
	})
}

// TransferReward 转让奖励代币。转让不触碰底层凭证，
// 收益暂停跟随凭证本身而非代币的当前持有人。
func (l *RewardLogic) TransferReward(caller common.Address, rewardId int64, to common.Address) error {
	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		var reward model.RewardModel
		if err := tx.Where("id = ? AND active = ?", rewardId, true).First(&reward).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrRewardNotFound
			}
			return err
		}
		if reward.Owner != caller {
			return apperr.ErrNotOwner
		}
		return tx.Model(&reward).Update("owner", to).Error
	})
}

// GetReward 获取奖励代币详情
func (l *RewardLogic) GetReward(rewardId int64) (*model.RewardModel, error) {
	var reward model.RewardModel
	if err := l.db.First(&reward, rewardId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrRewardNotFound
		}
		return nil, err
	}
	return &reward, nil
}

// ListRewardsByOwner 按持有人查询活跃奖励代币
func (l *RewardLogic) ListRewardsByOwner(owner common.Address) ([]model.RewardModel, error) {
	var rewards []model.RewardModel
	if err := l.db.Where("owner = ? AND active = ?", owner, true).
		Order("id ASC").Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

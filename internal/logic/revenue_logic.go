package logic

import (
	"errors"
	"math/big"
	"time"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/logger"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// RevenueLogic 收益累计与按比例分配引擎
type RevenueLogic struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewRevenueLogic 创建收益分配引擎
func NewRevenueLogic(db *gorm.DB, cfg *config.Config) *RevenueLogic {
	return &RevenueLogic{db: db, cfg: cfg}
}

// AddRevenue 追加一笔待分配收益，仅管理员
func (l *RevenueLogic) AddRevenue(caller common.Address, projectId int64, amount int64, source string) error {
	if !l.cfg.Admin.IsAdmin(caller) {
		return apperr.ErrAdminOnly
	}
	if amount <= 0 {
		return apperr.ErrInvalidAmount
	}

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		var project model.ProjectModel
		if err := tx.First(&project, projectId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrProjectNotFound
			}
			return err
		}
		return tx.Create(&model.RevenueEntryModel{
			ProjectId: projectId,
			Amount:    amount,
			Source:    source,
		}).Error
	})
}

// Distribute 一次性消费项目的全部待分配收益，按基点比例
// 派发给所有Active状态的权益凭证。向下取整，余数不结转。
// 全程持执行锁，到账方无法重入账本。仅管理员。
func (l *RevenueLogic) Distribute(caller common.Address, projectId int64) (*model.DistributionRecordModel, error) {
	if !l.cfg.Admin.IsAdmin(caller) {
		return nil, apperr.ErrAdminOnly
	}

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	var record *model.DistributionRecordModel
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var project model.ProjectModel
		if err := tx.First(&project, projectId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrProjectNotFound
			}
			return err
		}

		var entries []model.RevenueEntryModel
		if err := tx.Where("project_id = ?", projectId).Find(&entries).Error; err != nil {
			return err
		}
		totalBig := new(big.Int)
		for _, e := range entries {
			totalBig.Add(totalBig, big.NewInt(e.Amount))
		}
		if len(entries) == 0 || totalBig.Sign() == 0 {
			return apperr.ErrNoRevenue
		}
		// 队列合计必须能记录为int64
		if !totalBig.IsInt64() {
			return apperr.ErrInvalidAmount
		}
		total := totalBig.Int64()

		var activeClaims []model.ClaimModel
		if err := tx.Where("project_id = ? AND status = ?", projectId, model.ClaimStatusActive).
			Order("id ASC").Find(&activeClaims).Error; err != nil {
			return err
		}
		var totalShare int64
		for _, c := range activeClaims {
			totalShare += c.BasisPoints
		}
		if totalShare == 0 {
			return apperr.ErrNoActiveClaims
		}

		record = &model.DistributionRecordModel{
			ProjectId:   projectId,
			TotalAmount: total,
			TotalShare:  totalShare,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		paid := 0
		shareBig := big.NewInt(totalShare)
		for _, c := range activeClaims {
			// total * basisPoints 可能超出int64，中间值走大整数
			payoutBig := new(big.Int).Mul(totalBig, big.NewInt(c.BasisPoints))
			payout := payoutBig.Quo(payoutBig, shareBig).Int64()
			if payout <= 0 {
				continue
			}
			if err := l.credit(tx, c.Owner, payout); err != nil {
				return err
			}
			if err := tx.Create(&model.PayoutRecordModel{
				DistributionId: record.Id,
				ProjectId:      projectId,
				ClaimId:        c.Id,
				Owner:          c.Owner,
				Amount:         payout,
			}).Error; err != nil {
				return err
			}
			paid++
		}

		// 队列整体清空，取整余数随之丢弃
		if err := tx.Where("project_id = ?", projectId).
			Delete(&model.RevenueEntryModel{}).Error; err != nil {
			return err
		}

		record.ClaimsPaid = paid
		return tx.Model(record).Update("claims_paid", paid).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Distributed revenue for project %d: total=%d share=%d claims=%d",
		projectId, record.TotalAmount, record.TotalShare, record.ClaimsPaid)
	return record, nil
}

// credit 给账户余额入账
func (l *RevenueLogic) credit(tx *gorm.DB, addr common.Address, amount int64) error {
	var balance model.BalanceModel
	err := tx.Where("address = ?", addr).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&model.BalanceModel{Address: addr, Amount: amount}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&balance).Update("amount", gorm.Expr("amount + ?", amount)).Error
}

// GetBalance 查询账户余额
func (l *RevenueLogic) GetBalance(addr common.Address) (int64, error) {
	var balance model.BalanceModel
	err := l.db.Where("address = ?", addr).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance.Amount, nil
}

// PendingRevenue 查询项目待分配收益队列及合计
func (l *RevenueLogic) PendingRevenue(projectId int64) ([]model.RevenueEntryModel, int64, error) {
	var entries []model.RevenueEntryModel
	if err := l.db.Where("project_id = ?", projectId).
		Order("id ASC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.Amount
	}
	return entries, total, nil
}

// ListDistributions 查询项目历史分配记录
func (l *RevenueLogic) ListDistributions(projectId int64) ([]model.DistributionRecordModel, error) {
	var records []model.DistributionRecordModel
	if err := l.db.Where("project_id = ?", projectId).
		Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// StaleProjects 查询存在滞留超过minAge的待分配收益的项目，供定时分配任务使用
func (l *RevenueLogic) StaleProjects(minAge time.Duration) ([]int64, error) {
	cutoff := time.Now().Add(-minAge)
	var projectIds []int64
	if err := l.db.Model(&model.RevenueEntryModel{}).
		Where("created_at < ?", cutoff).
		Distinct("project_id").
		Pluck("project_id", &projectIds).Error; err != nil {
		return nil, err
	}
	return projectIds, nil
}

package logic

import (
	"errors"
	"math"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/logger"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// PaymentLogic 支付入账编排。已验证的外部支付从这里进入账本：
// 校验、更新项目累计募资、铸造权益凭证，一个事务内全部完成。
type PaymentLogic struct {
	db           *gorm.DB
	cfg          *config.Config
	claims       *ClaimLogic
	attestations *AttestationLogic
}

// NewPaymentLogic 创建支付入账编排
func NewPaymentLogic(db *gorm.DB, cfg *config.Config, claims *ClaimLogic, attestations *AttestationLogic) *PaymentLogic {
	return &PaymentLogic{db: db, cfg: cfg, claims: claims, attestations: attestations}
}

// ProcessPayment 处理一笔已验证的支付并铸造权益凭证。
// 同一项目内同一交易引用只消费一次。仅管理员（中继身份）。
func (p *PaymentLogic) ProcessPayment(caller common.Address, projectId int64, investor common.Address, amount int64, paymentRef string, joinPrice int64) (*model.PaymentRecordModel, error) {
	if !p.cfg.Admin.IsAdmin(caller) {
		return nil, apperr.ErrAdminOnly
	}

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	var record *model.PaymentRecordModel
	err := p.db.Transaction(func(tx *gorm.DB) error {
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

		var existing model.PaymentRecordModel
		err := tx.Where("project_id = ? AND tx_ref = ?", projectId, paymentRef).
			First(&existing).Error
		if err == nil {
			return apperr.ErrDuplicatePayment
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 上界保证 amount * BasisPointsTotal 不溢出int64
		if amount <= 0 || amount > math.MaxInt64/model.BasisPointsTotal {
			return apperr.ErrInvalidAmount
		}

		verified, err := p.attestations.IsPaymentVerified(paymentRef)
		if err != nil {
			return err
		}
		if !verified {
			return apperr.ErrUnverifiedPayment
		}

		basisPoints := amount * model.BasisPointsTotal / project.TargetAmount
		if basisPoints == 0 {
			return apperr.ErrContributionTooSmall
		}

		if err := tx.Model(&project).
			Update("raised_amount", gorm.Expr("raised_amount + ?", amount)).Error; err != nil {
			return err
		}

		claim, err := p.claims.mintClaim(tx, investor, projectId, basisPoints, joinPrice, paymentRef)
		if err != nil {
			return err
		}

		record = &model.PaymentRecordModel{
			ProjectId: projectId,
			TxRef:     paymentRef,
			Investor:  investor,
			Amount:    amount,
			JoinPrice: joinPrice,
			ClaimId:   claim.Id,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment processed: project=%d investor=%s amount=%d claim=%d",
		projectId, record.Investor.Hex(), record.Amount, record.ClaimId)
	return record, nil
}

// GetPaymentRecords 查询项目已处理支付记录
func (p *PaymentLogic) GetPaymentRecords(projectId int64, page, pageSize int) ([]model.PaymentRecordModel, int64, error) {
	var records []model.PaymentRecordModel
	var total int64

	if err := p.db.Model(&model.PaymentRecordModel{}).
		Where("project_id = ?", projectId).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := p.db.Where("project_id = ?", projectId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

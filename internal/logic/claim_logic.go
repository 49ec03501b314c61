package logic

import (
	"errors"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// ClaimLogic 权益凭证注册表
type ClaimLogic struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewClaimLogic 创建权益凭证注册表
func NewClaimLogic(db *gorm.DB, cfg *config.Config) *ClaimLogic {
	return &ClaimLogic{db: db, cfg: cfg}
}

// mintClaim 在给定事务内铸造权益凭证。不对外暴露，
// 只有支付入账流程（PaymentLogic）能走到这里。
func (l *ClaimLogic) mintClaim(tx *gorm.DB, owner common.Address, projectId int64, basisPoints int64, joinPrice int64, paymentRef string) (*model.ClaimModel, error) {
	// 单个凭证的份额不超过10000基点；项目整体超募靠多个凭证累加体现
	if basisPoints <= 0 || basisPoints > model.BasisPointsTotal {
		return nil, apperr.ErrInvalidShare
	}

	claim := &model.ClaimModel{
		Owner:       owner,
		ProjectId:   projectId,
		BasisPoints: basisPoints,
		Status:      model.ClaimStatusActive,
		JoinPrice:   joinPrice,
		PaymentRef:  paymentRef,
	}
	if err := tx.Create(claim).Error; err != nil {
		return nil, err
	}

	return claim, nil
}

// setStatus 在给定事务内转换凭证状态。Active↔Staked 由质押引擎调用，
// Active→Slashed 仅管理员，其余转换一律拒绝。
func (l *ClaimLogic) setStatus(tx *gorm.DB, claim *model.ClaimModel, newStatus model.ClaimStatus) error {
	ok := false
	switch {
	case claim.Status == model.ClaimStatusActive && newStatus == model.ClaimStatusStaked:
		ok = true
	case claim.Status == model.ClaimStatusStaked && newStatus == model.ClaimStatusActive:
		ok = true
	case claim.Status == model.ClaimStatusActive && newStatus == model.ClaimStatusSlashed:
		ok = true
	}
	if !ok {
		return apperr.ErrInvalidTransition
	}

	claim.Status = newStatus
	return tx.Model(claim).Update("status", newStatus).Error
}

// Slash 罚没权益凭证，终态，仅管理员
func (l *ClaimLogic) Slash(caller common.Address, claimId int64) error {
	if !l.cfg.Admin.IsAdmin(caller) {
		return apperr.ErrAdminOnly
	}

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		var claim model.ClaimModel
		if err := tx.First(&claim, claimId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrClaimNotFound
			}
			return err
		}
		return l.setStatus(tx, &claim, model.ClaimStatusSlashed)
	})
}

// Transfer 权益凭证不可转让，任何转让请求都失败
func (l *ClaimLogic) Transfer(caller common.Address, claimId int64, to common.Address) error {
	return apperr.ErrNonTransferable
}

// Approve 权益凭证不支持授权，与转让同理
func (l *ClaimLogic) Approve(caller common.Address, claimId int64, spender common.Address) error {
	return apperr.ErrNonTransferable
}

// GetClaim 获取凭证详情
func (l *ClaimLogic) GetClaim(claimId int64) (*model.ClaimModel, error) {
	var claim model.ClaimModel
	if err := l.db.First(&claim, claimId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrClaimNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// ListByOwner 按所有者查询凭证
func (l *ClaimLogic) ListByOwner(owner common.Address) ([]model.ClaimModel, error) {
	var claims []model.ClaimModel
	if err := l.db.Where("owner = ?", owner).Order("id ASC").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

// ListByProject 按项目查询凭证
func (l *ClaimLogic) ListByProject(projectId int64) ([]model.ClaimModel, error) {
	var claims []model.ClaimModel
	if err := l.db.Where("project_id = ?", projectId).Order("id ASC").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

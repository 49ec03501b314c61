package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RewardModel 质押奖励代币，可自由转让
type RewardModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 与权益凭证1:1配对
	ClaimId   int64 `json:"claim_id" gorm:"not null;index"`
	ProjectId int64 `json:"project_id" gorm:"not null;index"`

	Owner common.Address `json:"owner" gorm:"not null;index"`

	// 质押时从权益凭证快照的份额
	BasisPoints int64 `json:"basis_points" gorm:"not null"`

	// 销毁后置false并解除配对
	Active bool `json:"active" gorm:"default:true"`
}

// TableName 自定义表名
func (RewardModel) TableName() string {
	return "reward"
}

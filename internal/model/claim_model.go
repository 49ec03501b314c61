package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ClaimModel 投资人权益凭证，不可转让
type ClaimModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner     common.Address `json:"owner" gorm:"not null;index"`
	ProjectId int64          `json:"project_id" gorm:"not null;index"`

	// 份额，基点单位，10000 = 100%
	BasisPoints int64 `json:"basis_points" gorm:"not null"`

	Status ClaimStatus `json:"status" gorm:"default:'active'"`

	// 投资时的外部参考价，审计用
	JoinPrice  int64  `json:"join_price"`
	PaymentRef string `json:"payment_ref" gorm:"not null"`
}

// TableName 自定义表名
func (ClaimModel) TableName() string {
	return "claim"
}

// ClaimStatus 权益凭证状态
type ClaimStatus string

const (
	ClaimStatusActive  ClaimStatus = "active"  // 活跃，参与收益分配
	ClaimStatusStaked  ClaimStatus = "staked"  // 已质押，收益暂停
	ClaimStatusSlashed ClaimStatus = "slashed" // 已罚没，终态
)

// BasisPointsTotal 基点总量，10000 = 100%
const BasisPointsTotal = 10000

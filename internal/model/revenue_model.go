package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RevenueEntryModel 待分配收益条目，分配时整队列一次性消费
type RevenueEntryModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectId int64  `json:"project_id" gorm:"not null;index"`
	Amount    int64  `json:"amount" gorm:"not null"`
	Source    string `json:"source"` // 收益来源，如 box_office、streaming
}

// TableName 自定义表名
func (RevenueEntryModel) TableName() string {
	return "revenue_entry"
}

// DistributionRecordModel 收益分配记录
type DistributionRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectId   int64 `json:"project_id" gorm:"not null;index"`
	TotalAmount int64 `json:"total_amount" gorm:"not null"` // 本轮分配总额
	TotalShare  int64 `json:"total_share" gorm:"not null"`  // 参与分配的基点合计
	ClaimsPaid  int   `json:"claims_paid" gorm:"not null"`  // 实际获得分配的凭证数
}

// TableName 自定义表名
func (DistributionRecordModel) TableName() string {
	return "distribution_record"
}

// PayoutRecordModel 单个凭证在一轮分配中的到账记录
type PayoutRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	DistributionId int64          `json:"distribution_id" gorm:"not null;index"`
	ProjectId      int64          `json:"project_id" gorm:"not null;index"`
	ClaimId        int64          `json:"claim_id" gorm:"not null"`
	Owner          common.Address `json:"owner" gorm:"not null;index"`
	Amount         int64          `json:"amount" gorm:"not null"`
}

// TableName 自定义表名
func (PayoutRecordModel) TableName() string {
	return "payout_record"
}

// BalanceModel 账户内部余额，分配到账后累计于此
type BalanceModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	UpdatedAt time.Time `json:"updated_at"`

	Address common.Address `json:"address" gorm:"uniqueIndex;not null"`
	Amount  int64          `json:"amount" gorm:"default:0"`
}

// TableName 自定义表名
func (BalanceModel) TableName() string {
	return "balance"
}

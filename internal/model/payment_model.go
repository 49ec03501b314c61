package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PaymentProofModel 链外支付验证记录，按交易引用幂等
type PaymentProofModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	TxRef     string         `json:"tx_ref" gorm:"uniqueIndex;not null"`
	Sender    common.Address `json:"sender" gorm:"not null"`
	Recipient common.Address `json:"recipient" gorm:"not null"`
	Amount    int64          `json:"amount" gorm:"not null"`

	// 外部链上时间与区块号
	ExternalTime int64 `json:"external_time"`
	BlockNum     int64 `json:"block_num"`

	Verified bool `json:"verified" gorm:"default:false"`
}

// TableName 自定义表名
func (PaymentProofModel) TableName() string {
	return "payment_proof"
}

// PaymentRecordModel 已处理支付记录，同一项目内交易引用只消费一次
type PaymentRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectId int64          `json:"project_id" gorm:"not null;index:idx_payment_project_ref,unique,priority:1"`
	TxRef     string         `json:"tx_ref" gorm:"not null;index:idx_payment_project_ref,unique,priority:2"`
	Investor  common.Address `json:"investor" gorm:"not null;index"`
	Amount    int64          `json:"amount" gorm:"not null"`
	JoinPrice int64          `json:"join_price"`
	ClaimId   int64          `json:"claim_id" gorm:"not null"`
}

// TableName 自定义表名
func (PaymentRecordModel) TableName() string {
	return "payment_record"
}

// VerifierModel 授权见证人集合
type VerifierModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Allowed不能带default标签：gorm在Create时会跳过带default的零值字段，
	// 显式写入的false会被数据库默认值覆盖
	Address common.Address `json:"address" gorm:"uniqueIndex;not null"`
	Allowed bool           `json:"allowed" gorm:"not null"`
}

// TableName 自定义表名
func (VerifierModel) TableName() string {
	return "verifier"
}

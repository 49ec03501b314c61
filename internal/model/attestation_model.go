package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// AttestationModel 里程碑见证记录，创建后不可变
type AttestationModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	// 键 = keccak(projectId, seq, proofRef, createdAt)，见 logic.AttestKeyV1
	Key string `json:"key" gorm:"uniqueIndex;not null"`

	ProjectId    int64  `json:"project_id" gorm:"not null;index"`
	MilestoneSeq int    `json:"milestone_seq" gorm:"not null"`
	Title        string `json:"title"`
	Description  string `json:"description" gorm:"type:text"`
	ProofRef     string `json:"proof_ref" gorm:"not null"`
	AttestedAt   int64  `json:"attested_at" gorm:"not null"` // 见证人签名时间，参与键计算

	Verifier common.Address `json:"verifier" gorm:"not null"`
	Verified bool           `json:"verified" gorm:"default:false"`
}

// TableName 自定义表名
func (AttestationModel) TableName() string {
	return "attestation"
}

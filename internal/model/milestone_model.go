package model

import (
	"time"
)

// MilestoneModel 项目里程碑
type MilestoneModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId    int64  `json:"project_id" gorm:"not null;index:idx_milestone_project_seq,unique,priority:1"`
	Seq          int    `json:"seq" gorm:"not null;index:idx_milestone_project_seq,unique,priority:2"` // 项目内序号，从0开始
	Title        string `json:"title" gorm:"not null"`
	Description  string `json:"description" gorm:"type:text"`
	UnlockAmount int64  `json:"unlock_amount" gorm:"not null"`

	// 状态只向前推进，不回退
	Status         MilestoneStatus `json:"status" gorm:"default:'pending'"`
	UnlockedAt     *time.Time      `json:"unlocked_at"`
	AttestationKey string          `json:"attestation_key"`
}

// TableName 自定义表名
func (MilestoneModel) TableName() string {
	return "milestone"
}

// MilestoneStatus 里程碑状态
type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "pending"   // 待解锁
	MilestoneStatusUnlocked  MilestoneStatus = "unlocked"  // 已解锁
	MilestoneStatusCompleted MilestoneStatus = "completed" // 已完成（由外部流程推进）
)

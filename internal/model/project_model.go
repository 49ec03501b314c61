package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ProjectModel 影视众筹项目模型
type ProjectModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category"`

	// 募资信息
	TargetAmount int64 `json:"target_amount" gorm:"not null" binding:"required,min=1"`
	RaisedAmount int64 `json:"raised_amount" gorm:"default:0"`

	// 创建者信息
	Creator common.Address `json:"creator" gorm:"not null"`

	// 状态：仅管理员可停用，项目永不删除
	Active bool `json:"active" gorm:"default:true"`
}

// TableName 自定义表名
func (ProjectModel) TableName() string {
	return "project"
}

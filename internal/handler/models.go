package handler

import (
	"time"

	"github.com/AnkithSVaidya/CineFlare/internal/model"
)

// 项目相关响应模型

// ProjectResponse 项目响应模型
type ProjectResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Creator      string    `json:"creator"`
	TargetAmount int64     `json:"targetAmount"`
	RaisedAmount int64     `json:"raisedAmount"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToProjectResponse 将数据库模型转换为响应模型
func ToProjectResponse(project *model.ProjectModel) ProjectResponse {
	return ProjectResponse{
		ID:           project.Id,
		Title:        project.Title,
		Description:  project.Description,
		Category:     project.Category,
		Creator:      project.Creator.Hex(),
		TargetAmount: project.TargetAmount,
		RaisedAmount: project.RaisedAmount,
		Active:       project.Active,
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
	}
}

// ToProjectResponseList 将数据库模型列表转换为响应模型列表
func ToProjectResponseList(projects []model.ProjectModel) []ProjectResponse {
	result := make([]ProjectResponse, len(projects))
	for i, project := range projects {
		result[i] = ToProjectResponse(&project)
	}
	return result
}

// 权益凭证相关响应模型

// ClaimResponse 权益凭证响应模型
type ClaimResponse struct {
	ID          int64     `json:"id"`
	Owner       string    `json:"owner"`
	ProjectID   int64     `json:"projectId"`
	BasisPoints int64     `json:"basisPoints"`
	Status      string    `json:"status"`
	JoinPrice   int64     `json:"joinPrice"`
	PaymentRef  string    `json:"paymentRef"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToClaimResponse 将权益凭证数据库模型转换为响应模型
func ToClaimResponse(claim *model.ClaimModel) ClaimResponse {
	return ClaimResponse{
		ID:          claim.Id,
		Owner:       claim.Owner.Hex(),
		ProjectID:   claim.ProjectId,
		BasisPoints: claim.BasisPoints,
		Status:      string(claim.Status),
		JoinPrice:   claim.JoinPrice,
		PaymentRef:  claim.PaymentRef,
		CreatedAt:   claim.CreatedAt,
	}
}

// ToClaimResponseList 将权益凭证数据库模型列表转换为响应模型列表
func ToClaimResponseList(claims []model.ClaimModel) []ClaimResponse {
	result := make([]ClaimResponse, len(claims))
	for i, claim := range claims {
		result[i] = ToClaimResponse(&claim)
	}
	return result
}

// 奖励代币相关响应模型

// RewardResponse 奖励代币响应模型
type RewardResponse struct {
	ID          int64     `json:"id"`
	ClaimID     int64     `json:"claimId"`
	ProjectID   int64     `json:"projectId"`
	Owner       string    `json:"owner"`
	BasisPoints int64     `json:"basisPoints"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToRewardResponse 将奖励代币数据库模型转换为响应模型
func ToRewardResponse(reward *model.RewardModel) RewardResponse {
	return RewardResponse{
		ID:          reward.Id,
		ClaimID:     reward.ClaimId,
		ProjectID:   reward.ProjectId,
		Owner:       reward.Owner.Hex(),
		BasisPoints: reward.BasisPoints,
		Active:      reward.Active,
		CreatedAt:   reward.CreatedAt,
	}
}

// ToRewardResponseList 将奖励代币数据库模型列表转换为响应模型列表
func ToRewardResponseList(rewards []model.RewardModel) []RewardResponse {
	result := make([]RewardResponse, len(rewards))
	for i, reward := range rewards {
		result[i] = ToRewardResponse(&reward)
	}
	return result
}

// 收益分配相关响应模型

// DistributionResponse 分配记录响应模型
type DistributionResponse struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"projectId"`
	TotalAmount int64     `json:"totalAmount"`
	TotalShare  int64     `json:"totalShare"`
	ClaimsPaid  int       `json:"claimsPaid"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToDistributionResponse 将分配记录数据库模型转换为响应模型
func ToDistributionResponse(record *model.DistributionRecordModel) DistributionResponse {
	return DistributionResponse{
		ID:          record.Id,
		ProjectID:   record.ProjectId,
		TotalAmount: record.TotalAmount,
		TotalShare:  record.TotalShare,
		ClaimsPaid:  record.ClaimsPaid,
		CreatedAt:   record.CreatedAt,
	}
}

// ToDistributionResponseList 将分配记录数据库模型列表转换为响应模型列表
func ToDistributionResponseList(records []model.DistributionRecordModel) []DistributionResponse {
	result := make([]DistributionResponse, len(records))
	for i, record := range records {
		result[i] = ToDistributionResponse(&record)
	}
	return result
}

// 支付记录响应模型

// PaymentRecordResponse 已处理支付响应模型
type PaymentRecordResponse struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	TxRef     string    `json:"txRef"`
	Investor  string    `json:"investor"`
	Amount    int64     `json:"amount"`
	JoinPrice int64     `json:"joinPrice"`
	ClaimID   int64     `json:"claimId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToPaymentRecordResponse 将支付记录数据库模型转换为响应模型
func ToPaymentRecordResponse(record *model.PaymentRecordModel) PaymentRecordResponse {
	return PaymentRecordResponse{
		ID:        record.Id,
		ProjectID: record.ProjectId,
		TxRef:     record.TxRef,
		Investor:  record.Investor.Hex(),
		Amount:    record.Amount,
		JoinPrice: record.JoinPrice,
		ClaimID:   record.ClaimId,
		CreatedAt: record.CreatedAt,
	}
}

// ToPaymentRecordResponseList 将支付记录数据库模型列表转换为响应模型列表
func ToPaymentRecordResponseList(records []model.PaymentRecordModel) []PaymentRecordResponse {
	result := make([]PaymentRecordResponse, len(records))
	for i, record := range records {
		result[i] = ToPaymentRecordResponse(&record)
	}
	return result
}

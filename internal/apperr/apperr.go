package apperr

import (
	"errors"
	"net/http"
)

// Kind 错误分类
type Kind int

const (
	KindNotFound     Kind = iota + 1 // 资源不存在
	KindInvalidState                 // 状态不允许该操作
	KindUnauthorized                 // 无权限
	KindDuplicate                    // 重复操作
	KindInvalidInput                 // 输入无效
	KindPrecondition                 // 前置条件不满足
)

// Error 业务错误，带稳定的错误码
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// New 创建业务错误
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// 资源不存在
var (
	ErrProjectNotFound     = New(KindNotFound, "ProjectNotFound", "项目不存在")
	ErrClaimNotFound       = New(KindNotFound, "ClaimNotFound", "权益凭证不存在")
	ErrRewardNotFound      = New(KindNotFound, "RewardNotFound", "奖励代币不存在")
	ErrMilestoneNotFound   = New(KindNotFound, "MilestoneNotFound", "里程碑不存在")
	ErrAttestationNotFound = New(KindNotFound, "AttestationNotFound", "见证记录不存在")
)

// 状态错误
var (
	ErrProjectInactive          = New(KindInvalidState, "ProjectInactive", "项目未激活")
	ErrNotActive                = New(KindInvalidState, "NotActive", "权益凭证不在活跃状态")
	ErrInvalidTransition        = New(KindInvalidState, "InvalidTransition", "不允许的状态转换")
	ErrMilestoneAlreadyUnlocked = New(KindInvalidState, "MilestoneAlreadyUnlocked", "里程碑已解锁")
	ErrNonTransferable          = New(KindInvalidState, "NonTransferable", "权益凭证不可转让")
)

// 权限错误
var (
	ErrNotOwner             = New(KindUnauthorized, "NotOwner", "调用者不是所有者")
	ErrUnauthorizedVerifier = New(KindUnauthorized, "UnauthorizedVerifier", "签名者不是授权见证人")
	ErrAdminOnly            = New(KindUnauthorized, "AdminOnly", "仅管理员可执行该操作")
)

// 重复操作
var (
	ErrDuplicatePayment    = New(KindDuplicate, "DuplicatePayment", "支付凭证已处理")
	ErrAlreadyVerified     = New(KindDuplicate, "AlreadyVerified", "支付凭证已验证")
	ErrRewardAlreadyExists = New(KindDuplicate, "RewardAlreadyExists", "该权益凭证已质押")
	ErrAttestationExists   = New(KindDuplicate, "AttestationExists", "见证记录已存在")
)

// 输入错误
var (
	ErrInvalidAmount        = New(KindInvalidInput, "InvalidAmount", "金额必须大于0")
	ErrInvalidShare         = New(KindInvalidInput, "InvalidShare", "份额必须在1到10000基点之间")
	ErrContributionTooSmall = New(KindInvalidInput, "ContributionTooSmall", "投资金额过小，份额不足1个基点")
)

// 前置条件错误
var (
	ErrUnverifiedPayment  = New(KindPrecondition, "UnverifiedPayment", "支付凭证未经验证")
	ErrInvalidAttestation = New(KindPrecondition, "InvalidAttestation", "见证记录无效或不存在")
	ErrNoRevenue          = New(KindPrecondition, "NoRevenue", "没有待分配的收益")
	ErrNoActiveClaims     = New(KindPrecondition, "NoActiveClaims", "没有活跃的权益凭证")
)

// KindOf 提取错误分类，非业务错误返回0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// CodeOf 提取错误码，非业务错误返回空串
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus 错误分类到HTTP状态码的映射
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindPrecondition:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusForbidden
	case KindDuplicate:
		return http.StatusConflict
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

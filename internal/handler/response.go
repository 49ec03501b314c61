package handler

import (
	"net/http"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// AppErrorResponse 业务错误响应，状态码与错误码由错误分类决定
func AppErrorResponse(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), Response{
		Success: false,
		Code:    apperr.CodeOf(err),
		Message: err.Error(),
		Data:    nil,
	})
}

// CallerHeader 调用者身份请求头
const CallerHeader = "X-Caller-Address"

// callerAddress 从请求头提取调用者地址
func callerAddress(c *gin.Context) (common.Address, bool) {
	raw := c.GetHeader(CallerHeader)
	if !common.IsHexAddress(raw) {
		ErrorResponse(c, http.StatusBadRequest, "缺少或无效的调用者地址")
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// Package apperrors 定义领域错误类别。
// 所有业务失败同步上报调用方，按类别映射 HTTP 状态码；核心内部绝不重试。
package apperrors

import "errors"

// Kind 领域错误类别
type Kind int

const (
	// KindNotFound 目标资源不存在（考核/申诉/评价记录缺失）
	KindNotFound Kind = iota + 1
	// KindForbidden 权限解析拒绝
	KindForbidden
	// KindInvalidState 状态机守卫不满足（如非 SCORES_SENT 状态发起申诉）
	KindInvalidState
	// KindInvalidInput 入参非法（非法 ID、未知档位选择等）
	KindInvalidInput
	// KindConfigMissing 周期无可解析的计分配置——该周期评分视为致命错误，不做静默兜底
	KindConfigMissing
)

// Error 带类别的领域错误
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New 构造指定类别的领域错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NotFound 资源不存在
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Forbidden 无权操作
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// InvalidState 状态不满足操作条件
func InvalidState(message string) *Error { return New(KindInvalidState, message) }

// InvalidInput 入参非法
func InvalidInput(message string) *Error { return New(KindInvalidInput, message) }

// ConfigMissing 计分配置缺失
func ConfigMissing(message string) *Error { return New(KindConfigMissing, message) }

// KindOf 提取错误类别；非领域错误返回 0
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

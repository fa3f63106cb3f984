package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("hostId 或 type 无效")
	ErrNotFound        = errors.New("host 不存在")
)

// UpstreamError 记录库返回了非成功状态（不含 not found）
type UpstreamError struct {
	Op      string // read | write
	Status  int    // 0 表示网络层错误
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("记录库%s失败: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("记录库%s失败: %s", e.Op, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

package adminauth

import "errors"

var (
	ErrMissingCode    = errors.New("缺少授权码")
	ErrExchangeFailed = errors.New("授权码交换失败")
	ErrForbidden      = errors.New("无管理员权限")
	ErrUnauthorized   = errors.New("会话无效或已过期")
)

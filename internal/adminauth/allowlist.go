package adminauth

import "slices"

// Allower 判断某个邮箱是否可以获得管理员会话
type Allower interface {
	Allowed(email string) bool
}

// AllowerFunc 函数适配器
type AllowerFunc func(email string) bool

func (f AllowerFunc) Allowed(email string) bool { return f(email) }

// AllowList 精确匹配（区分大小写）的邮箱白名单
type AllowList []string

func (l AllowList) Allowed(email string) bool {
	if email == "" {
		return false
	}
	return slices.Contains(l, email)
}

// SingleAdmin 单管理员部署
func SingleAdmin(email string) AllowList {
	if email == "" {
		return nil
	}
	return AllowList{email}
}

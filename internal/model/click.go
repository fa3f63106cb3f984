package model

import "errors"

// ClickType 访客从 host 页面点击的外链类别
type ClickType string

const (
	ClickWebsite   ClickType = "website"
	ClickInstagram ClickType = "instagram"
	ClickFacebook  ClickType = "facebook"
	ClickLinkedIn  ClickType = "linkedin"
	ClickYouTube   ClickType = "youtube"
	ClickTikTok    ClickType = "tiktok"
	ClickCompany   ClickType = "company"
)

var ErrInvalidClickType = errors.New("invalid click type")

// AllClickTypes 按固定顺序返回全部点击类别
func AllClickTypes() []ClickType {
	return []ClickType{
		ClickWebsite,
		ClickInstagram,
		ClickFacebook,
		ClickLinkedIn,
		ClickYouTube,
		ClickTikTok,
		ClickCompany,
	}
}

// ParseClickType 只接受枚举内的小写取值，不做大小写或空白归一化
func ParseClickType(s string) (ClickType, error) {
	t := ClickType(s)
	if _, ok := t.FieldName(); !ok {
		return "", ErrInvalidClickType
	}
	return t, nil
}

// FieldName 返回 Airtable 中对应的计数字段名
func (t ClickType) FieldName() (string, bool) {
	switch t {
	case ClickWebsite:
		return "Clicks to Website", true
	case ClickInstagram:
		return "Clicks to Instagram", true
	case ClickFacebook:
		return "Clicks to Facebook", true
	case ClickLinkedIn:
		return "Clicks to LinkedIn", true
	case ClickYouTube:
		return "Clicks to YouTube", true
	case ClickTikTok:
		return "Clicks to TikTok", true
	case ClickCompany:
		return "Clicks to Company", true
	}
	return "", false
}

// ClickEvent 一次点击事件，处理后即丢弃
type ClickEvent struct {
	HostID string    `json:"hostId" binding:"required" example:"rec123"`
	Type   ClickType `json:"type" binding:"required" example:"instagram"`
}

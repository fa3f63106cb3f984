package model

import (
	"time"
)

// 提交状态
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// Submission 新 host 的提交记录，审核通过后发布到 Airtable
type Submission struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	BusinessName string     `gorm:"size:200;not null" json:"businessName"`
	ContactName  string     `gorm:"size:100;not null" json:"contactName"`
	Email        string     `gorm:"size:100;not null;index" json:"email"`
	Website      string     `gorm:"type:text;not null" json:"website"`
	Location     string     `gorm:"size:200" json:"location"`
	Description  string     `gorm:"type:text" json:"description"`
	Instagram    string     `gorm:"type:text" json:"instagram,omitempty"`
	Facebook     string     `gorm:"type:text" json:"facebook,omitempty"`
	LinkedIn     string     `gorm:"type:text" json:"linkedin,omitempty"`
	YouTube      string     `gorm:"type:text" json:"youtube,omitempty"`
	TikTok       string     `gorm:"type:text" json:"tiktok,omitempty"`
	Status       string     `gorm:"size:20;default:'pending';index" json:"status"`
	RecordID     string     `gorm:"size:32" json:"recordId,omitempty"` // 审核通过后对应的 Airtable 记录
	ReviewedBy   string     `gorm:"size:100" json:"reviewedBy,omitempty"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName 指定表名
func (Submission) TableName() string {
	return "submissions"
}

// HostFields 转换为 Airtable host 记录字段
func (s *Submission) HostFields() map[string]any {
	fields := map[string]any{
		"Name":        s.BusinessName,
		"Contact":     s.ContactName,
		"Email":       s.Email,
		"Website":     s.Website,
		"Location":    s.Location,
		"Description": s.Description,
	}
	optional := map[string]string{
		"Instagram": s.Instagram,
		"Facebook":  s.Facebook,
		"LinkedIn":  s.LinkedIn,
		"YouTube":   s.YouTube,
		"TikTok":    s.TikTok,
	}
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookdirectstays/internal/model"
	"bookdirectstays/pkg/airtable"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HostPublisher 审核通过后写入 Airtable，由 *airtable.Client 实现
type HostPublisher interface {
	CreateRecord(ctx context.Context, fields map[string]any) (*airtable.Record, error)
}

// SubmissionHandler 新 host 提交与审核
type SubmissionHandler struct {
	db        *gorm.DB
	publisher HostPublisher
}

func NewSubmissionHandler(db *gorm.DB, publisher HostPublisher) *SubmissionHandler {
	return &SubmissionHandler{db: db, publisher: publisher}
}

// CreateSubmissionRequest 提交表单
type CreateSubmissionRequest struct {
	BusinessName string `json:"businessName" binding:"required,max=200" example:"Casa Azul"`
	ContactName  string `json:"contactName" binding:"required,max=100" example:"Ana Silva"`
	Email        string `json:"email" binding:"required,email,max=100" example:"ana@casaazul.com"`
	Website      string `json:"website" binding:"required,url" example:"https://casaazul.com"`
	Location     string `json:"location" binding:"max=200" example:"Lisbon, Portugal"`
	Description  string `json:"description" binding:"max=5000"`
	Instagram    string `json:"instagram" binding:"omitempty,url"`
	Facebook     string `json:"facebook" binding:"omitempty,url"`
	LinkedIn     string `json:"linkedin" binding:"omitempty,url"`
	YouTube      string `json:"youtube" binding:"omitempty,url"`
	TikTok       string `json:"tiktok" binding:"omitempty,url"`
}

// CreateSubmission godoc
// @Summary 提交新 host
// @Tags Submission
// @Accept  json
// @Produce  json
// @Param   submission  body   CreateSubmissionRequest  true  "提交内容"
// @Success 201 {object} map[string]interface{} "提交成功"
// @Failure 400 {object} map[string]interface{} "请求无效"
// @Failure 500 {object} map[string]interface{} "服务器内部错误"
// @Router /api/submissions [post]
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}

	sub := model.Submission{
		BusinessName: req.BusinessName,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Website:      req.Website,
		Location:     req.Location,
		Description:  req.Description,
		Instagram:    req.Instagram,
		Facebook:     req.Facebook,
		LinkedIn:     req.LinkedIn,
		YouTube:      req.YouTube,
		TikTok:       req.TikTok,
		Status:       model.SubmissionPending,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&sub).Error; err != nil {
		zap.S().Errorf("保存提交失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存提交失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": sub.ID, "status": sub.Status})
}

// ListSubmissions godoc
// @Summary 列出提交
// @Tags Admin
// @Security ApiKeyAuth
// @Produce  json
// @Param   status  query  string  false  "pending | approved | rejected"
// @Success 200 {array} model.Submission "提交列表"
// @Failure 400 {object} map[string]interface{} "状态无效"
// @Failure 401 {object} map[string]interface{} "未认证"
// @Router /api/admin/submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Order("created_at DESC").Limit(500)
	if status := c.Query("status"); status != "" {
		if !validStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的状态: " + status})
			return
		}
		query = query.Where("status = ?", status)
	}

	var subs []model.Submission
	if err := query.Find(&subs).Error; err != nil {
		zap.S().Errorf("获取提交失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取提交失败"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// ApproveSubmission godoc
// @Summary 通过提交并发布到目录
// @Tags Admin
// @Security ApiKeyAuth
// @Produce  json
// @Param   id  path  int  true  "提交 ID"
// @Success 200 {object} model.Submission "已发布"
// @Failure 404 {object} map[string]interface{} "提交不存在"
// @Failure 409 {object} map[string]interface{} "已审核"
// @Failure 500 {object} map[string]interface{} "记录库错误"
// @Router /api/admin/submissions/{id}/approve [post]
func (h *SubmissionHandler) ApproveSubmission(c *gin.Context) {
	sub, ok := h.loadPending(c)
	if !ok {
		return
	}

	rec, err := h.publisher.CreateRecord(c.Request.Context(), sub.HostFields())
	if err != nil {
		respondStoreError(c, "发布 host 失败", err)
		return
	}

	if !h.review(c, sub, model.SubmissionApproved, rec.ID) {
		zap.S().Warnf("提交 %d 已被并发审核，Airtable 记录 %s 需人工确认", sub.ID, rec.ID)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// RejectSubmission godoc
// @Summary 拒绝提交
// @Tags Admin
// @Security ApiKeyAuth
// @Produce  json
// @Param   id  path  int  true  "提交 ID"
// @Success 200 {object} model.Submission "已拒绝"
// @Failure 404 {object} map[string]interface{} "提交不存在"
// @Failure 409 {object} map[string]interface{} "已审核"
// @Router /api/admin/submissions/{id}/reject [post]
func (h *SubmissionHandler) RejectSubmission(c *gin.Context) {
	sub, ok := h.loadPending(c)
	if !ok {
		return
	}
	if !h.review(c, sub, model.SubmissionRejected, "") {
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubmissionHandler) loadPending(c *gin.Context) (*model.Submission, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的提交 ID"})
		return nil, false
	}

	var sub model.Submission
	if err := h.db.WithContext(c.Request.Context()).First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "提交不存在"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "获取提交失败"})
		}
		return nil, false
	}
	if sub.Status != model.SubmissionPending {
		c.JSON(http.StatusConflict, gin.H{"error": "提交已审核", "status": sub.Status})
		return nil, false
	}
	return &sub, true
}

// review 只更新仍处于 pending 的记录，避免重复审核
func (h *SubmissionHandler) review(c *gin.Context, sub *model.Submission, status, recordID string) bool {
	now := time.Now()
	reviewer := c.GetString("email")
	result := h.db.WithContext(c.Request.Context()).
		Model(&model.Submission{}).
		Where("id = ? AND status = ?", sub.ID, model.SubmissionPending).
		Updates(map[string]any{
			"status":      status,
			"record_id":   recordID,
			"reviewed_by": reviewer,
			"reviewed_at": now,
		})
	if result.Error != nil {
		zap.S().Errorf("更新提交状态失败: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新提交状态失败"})
		return false
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "提交已审核"})
		return false
	}

	sub.Status = status
	sub.RecordID = recordID
	sub.ReviewedBy = reviewer
	sub.ReviewedAt = &now
	return true
}

func validStatus(s string) bool {
	switch s {
	case model.SubmissionPending, model.SubmissionApproved, model.SubmissionRejected:
		return true
	}
	return false
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"bookdirectstays/internal/model"
	"bookdirectstays/internal/tracker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClickRecorder 由 *tracker.Tracker 实现
type ClickRecorder interface {
	RecordClick(ctx context.Context, hostID string, clickType model.ClickType) (*tracker.Result, error)
}

// ClickDispatcher 由 *tracker.Dispatcher 实现
type ClickDispatcher interface {
	Dispatch(ev model.ClickEvent) bool
}

// ClickHandler 点击追踪
type ClickHandler struct {
	recorder   ClickRecorder
	dispatcher ClickDispatcher
}

func NewClickHandler(recorder ClickRecorder, dispatcher ClickDispatcher) *ClickHandler {
	return &ClickHandler{recorder: recorder, dispatcher: dispatcher}
}

// LogClickRequest 点击事件请求体
type LogClickRequest struct {
	HostID string `json:"hostId" binding:"required" example:"rec123"`
	Type   string `json:"type" binding:"required" example:"instagram"`
}

// LogClickResponse 计数成功的响应
type LogClickResponse struct {
	Success  bool            `json:"success" example:"true"`
	Type     model.ClickType `json:"type" example:"instagram"`
	NewCount int64           `json:"newCount" example:"5"`
	RecordID string          `json:"recordId" example:"rec123"`
}

func (r *LogClickRequest) event() (model.ClickEvent, error) {
	ct, err := model.ParseClickType(r.Type)
	if err != nil {
		return model.ClickEvent{}, err
	}
	return model.ClickEvent{HostID: r.HostID, Type: ct}, nil
}

// LogClick godoc
// @Summary 记录一次外链点击
// @Description 读取 host 当前计数并加一，返回新的计数
// @Tags Click
// @Accept  json
// @Produce  json
// @Param   click  body   LogClickRequest  true  "点击事件"
// @Success 200 {object} LogClickResponse "成功响应"
// @Failure 400 {object} map[string]interface{} "请求无效"
// @Failure 404 {object} map[string]interface{} "host 不存在"
// @Failure 500 {object} map[string]interface{} "记录库错误"
// @Router /log-click [post]
func (h *ClickHandler) LogClick(c *gin.Context) {
	var req LogClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 hostId 或 type"})
		return
	}
	ev, err := req.event()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的点击类型: " + req.Type})
		return
	}

	res, err := h.recorder.RecordClick(c.Request.Context(), ev.HostID, ev.Type)
	if err != nil {
		respondTrackerError(c, err)
		return
	}

	c.JSON(http.StatusOK, LogClickResponse{
		Success:  true,
		Type:     res.Type,
		NewCount: res.NewCount,
		RecordID: res.HostID,
	})
}

// Track godoc
// @Summary 异步记录点击
// @Description 入队后立即返回，计数失败只记录日志
// @Tags Click
// @Accept  json
// @Produce  json
// @Param   click  body   LogClickRequest  true  "点击事件"
// @Success 202 {object} map[string]interface{} "已入队"
// @Failure 400 {object} map[string]interface{} "请求无效"
// @Failure 503 {object} map[string]interface{} "队列已满"
// @Router /track [post]
func (h *ClickHandler) Track(c *gin.Context) {
	var req LogClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 hostId 或 type"})
		return
	}
	ev, err := req.event()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的点击类型: " + req.Type})
		return
	}

	if !h.dispatcher.Dispatch(ev) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "点击队列繁忙", "queued": false})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}

func respondTrackerError(c *gin.Context, err error) {
	var ue *tracker.UpstreamError
	switch {
	case errors.Is(err, tracker.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, tracker.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ue):
		zap.S().Errorf("点击计数失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "更新点击计数失败",
			"details": gin.H{"operation": ue.Op, "status": ue.Status, "message": ue.Message},
		})
	default:
		zap.S().Errorf("点击计数失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新点击计数失败"})
	}
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"bookdirectstays/internal/model"
	"bookdirectstays/pkg/airtable"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// HostStore 由 *airtable.Client 实现
type HostStore interface {
	GetRecord(ctx context.Context, id string) (*airtable.Record, error)
	ListRecords(ctx context.Context, opts airtable.ListOptions) ([]airtable.Record, error)
}

// Host 目录中的一个 host
type Host struct {
	ID          string                    `json:"id" example:"rec123"`
	Name        string                    `json:"name" example:"Casa Azul"`
	Location    string                    `json:"location,omitempty"`
	Description string                    `json:"description,omitempty"`
	Website     string                    `json:"website,omitempty"`
	Socials     map[string]string         `json:"socials,omitempty"`
	Clicks      map[model.ClickType]int64 `json:"clicks"`
}

var socialFields = []string{"Instagram", "Facebook", "LinkedIn", "YouTube", "TikTok", "Company"}

func toHost(rec airtable.Record) Host {
	h := Host{
		ID:          rec.ID,
		Name:        airtable.StringField(rec.Fields, "Name"),
		Location:    airtable.StringField(rec.Fields, "Location"),
		Description: airtable.StringField(rec.Fields, "Description"),
		Website:     airtable.StringField(rec.Fields, "Website"),
		Clicks: lo.SliceToMap(model.AllClickTypes(), func(ct model.ClickType) (model.ClickType, int64) {
			field, _ := ct.FieldName()
			return ct, airtable.IntField(rec.Fields, field)
		}),
	}
	socials := lo.PickBy(
		lo.SliceToMap(socialFields, func(f string) (string, string) {
			return f, airtable.StringField(rec.Fields, f)
		}),
		func(_ string, v string) bool { return v != "" },
	)
	if len(socials) > 0 {
		h.Socials = socials
	}
	return h
}

// HostHandler 公开的 host 目录
type HostHandler struct {
	store HostStore
	view  string
}

func NewHostHandler(store HostStore, view string) *HostHandler {
	return &HostHandler{store: store, view: view}
}

// ListHosts godoc
// @Summary 列出已发布的 host
// @Tags Host
// @Produce  json
// @Success 200 {array} Host "host 列表"
// @Failure 500 {object} map[string]interface{} "记录库错误"
// @Router /api/hosts [get]
func (h *HostHandler) ListHosts(c *gin.Context) {
	records, err := h.store.ListRecords(c.Request.Context(), airtable.ListOptions{View: h.view, PageSize: 100})
	if err != nil {
		respondStoreError(c, "获取 host 列表失败", err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(records, func(r airtable.Record, _ int) Host { return toHost(r) }))
}

// GetHost godoc
// @Summary 获取单个 host
// @Tags Host
// @Produce  json
// @Param   id  path  string  true  "Airtable 记录 ID"
// @Success 200 {object} Host "host"
// @Failure 404 {object} map[string]interface{} "host 不存在"
// @Failure 500 {object} map[string]interface{} "记录库错误"
// @Router /api/hosts/{id} [get]
func (h *HostHandler) GetHost(c *gin.Context) {
	rec, err := h.store.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, airtable.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "host 不存在"})
			return
		}
		respondStoreError(c, "获取 host 失败", err)
		return
	}
	c.JSON(http.StatusOK, toHost(*rec))
}

// respondStoreError 记录库错误对运维透明，附带状态和响应内容
func respondStoreError(c *gin.Context, msg string, err error) {
	zap.S().Errorf("%s: %v", msg, err)
	body := gin.H{"error": msg}
	var se *airtable.StatusError
	if errors.As(err, &se) {
		body["details"] = gin.H{"status": se.StatusCode, "message": se.Body}
	} else {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.airtable.com/v0"

// 单次响应体读取上限
const maxBodyBytes = 4 << 20

var ErrNotFound = errors.New("airtable: record not found")

// StatusError Airtable 返回的非 2xx 响应
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("airtable: status %d: %s", e.StatusCode, e.Body)
}

// Record Airtable 记录
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// Config 客户端配置
type Config struct {
	BaseURL string
	APIKey  string
	BaseID  string
	Table   string
	Timeout time.Duration
}

// Client 单表 Airtable REST 客户端
type Client struct {
	httpClient *http.Client
	tableURL   string
	apiKey     string
}

// NewClient 创建客户端，Timeout 为每次请求的上限
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" || cfg.BaseID == "" || cfg.Table == "" {
		return nil, errors.New("airtable: api key, base id and table are required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: httpClient,
		tableURL:   base + "/" + url.PathEscape(cfg.BaseID) + "/" + url.PathEscape(cfg.Table),
		apiKey:     cfg.APIKey,
	}, nil
}

// GetRecord 读取单条记录，404 返回 ErrNotFound
func (c *Client) GetRecord(ctx context.Context, id string) (*Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodGet, c.recordURL(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateFields 部分更新（PATCH），只修改给定字段
func (c *Client) UpdateFields(ctx context.Context, id string, fields map[string]any) (*Record, error) {
	var rec Record
	body := map[string]any{"fields": fields}
	if err := c.do(ctx, http.MethodPatch, c.recordURL(id), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateRecord 新建记录
func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) (*Record, error) {
	var rec Record
	body := map[string]any{"fields": fields, "typecast": true}
	if err := c.do(ctx, http.MethodPost, c.tableURL, body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListOptions 列表查询参数
type ListOptions struct {
	View            string
	FilterByFormula string
	MaxRecords      int
	PageSize        int
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// ListRecords 按 offset 翻页读取全部记录
func (c *Client) ListRecords(ctx context.Context, opts ListOptions) ([]Record, error) {
	var out []Record
	offset := ""
	for {
		q := url.Values{}
		if opts.View != "" {
			q.Set("view", opts.View)
		}
		if opts.FilterByFormula != "" {
			q.Set("filterByFormula", opts.FilterByFormula)
		}
		if opts.MaxRecords > 0 {
			q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
		}
		if opts.PageSize > 0 {
			q.Set("pageSize", strconv.Itoa(opts.PageSize))
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		endpoint := c.tableURL
		if len(q) > 0 {
			endpoint += "?" + q.Encode()
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Records...)

		if page.Offset == "" || (opts.MaxRecords > 0 && len(out) >= opts.MaxRecords) {
			break
		}
		offset = page.Offset
	}
	return out, nil
}

func (c *Client) recordURL(id string) string {
	return c.tableURL + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("airtable: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("airtable: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("airtable: %s request: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("airtable: read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("airtable: decode response: %w", err)
	}
	return nil
}

// IntField 读取数值字段，缺失、null、非数字（含 NaN、Inf）、负数均视为 0，
// 小数向下取整，超出 int64 的值截断为 math.MaxInt64
func IntField(fields map[string]any, name string) int64 {
	v, ok := fields[name]
	if !ok || v == nil {
		return 0
	}
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		n = f
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0
	}
	// float64(math.MaxInt64) 恰好是 2^63，已经越界
	if n >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

// StringField 读取文本字段
func StringField(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

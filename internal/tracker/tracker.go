package tracker

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"bookdirectstays/internal/model"
	"bookdirectstays/pkg/airtable"

	"go.uber.org/zap"
)

// RecordStore 远程记录库，*airtable.Client 实现了该接口
type RecordStore interface {
	GetRecord(ctx context.Context, id string) (*airtable.Record, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*airtable.Record, error)
}

// Result 一次计数的结果
type Result struct {
	HostID   string          `json:"recordId"`
	Type     model.ClickType `json:"type"`
	NewCount int64           `json:"newCount"`
}

// Tracker 对 host 的点击计数做一次读-改-写
//
// 读和写之间不是原子的，并发点击可能少计。Locker 只能在本进程
// （或共享同一个 Redis 的实例之间）缩小这个窗口。
type Tracker struct {
	store       RecordStore
	locker      Locker
	callTimeout time.Duration
	logger      *zap.SugaredLogger
}

// New 创建 Tracker，locker 可以为 nil
func New(store RecordStore, locker Locker, callTimeout time.Duration, logger *zap.SugaredLogger) *Tracker {
	if callTimeout <= 0 {
		callTimeout = 5 * time.Second
	}
	return &Tracker{
		store:       store,
		locker:      locker,
		callTimeout: callTimeout,
		logger:      logger.Named("click_tracker"),
	}
}

// RecordClick 读取当前计数并加一
func (t *Tracker) RecordClick(ctx context.Context, hostID string, clickType model.ClickType) (*Result, error) {
	hostID = strings.TrimSpace(hostID)
	field, ok := clickType.FieldName()
	if hostID == "" || !ok {
		return nil, ErrInvalidArgument
	}

	if t.locker != nil {
		lockCtx, cancel := context.WithTimeout(ctx, t.callTimeout)
		unlock, err := t.locker.Lock(lockCtx, hostID)
		cancel()
		if err != nil {
			t.logger.Warnf("获取 host 锁失败，继续无锁更新: host=%s err=%v", hostID, err)
		} else {
			defer unlock()
		}
	}

	readCtx, cancel := context.WithTimeout(ctx, t.callTimeout)
	rec, err := t.store.GetRecord(readCtx, hostID)
	cancel()
	if err != nil {
		return nil, mapStoreError("read", err)
	}

	current := airtable.IntField(rec.Fields, field)
	next := current
	if current < math.MaxInt64 {
		next++
	}

	writeCtx, cancel := context.WithTimeout(ctx, t.callTimeout)
	_, err = t.store.UpdateFields(writeCtx, hostID, map[string]any{field: next})
	cancel()
	if err != nil {
		if errors.Is(err, airtable.ErrNotFound) {
			// 读到之后被删除，写入时的 404 也当作上游错误
			return nil, &UpstreamError{Op: "write", Status: 404, Message: err.Error(), Err: err}
		}
		return nil, mapStoreError("write", err)
	}

	t.logger.Debugf("点击计数更新: host=%s type=%s %d -> %d", hostID, clickType, current, next)
	return &Result{HostID: hostID, Type: clickType, NewCount: next}, nil
}

func mapStoreError(op string, err error) error {
	if errors.Is(err, airtable.ErrNotFound) {
		return ErrNotFound
	}
	var se *airtable.StatusError
	if errors.As(err, &se) {
		return &UpstreamError{Op: op, Status: se.StatusCode, Message: se.Body, Err: err}
	}
	return &UpstreamError{Op: op, Message: err.Error(), Err: err}
}

package tracker

import (
	"context"
	"sync"
	"time"

	"bookdirectstays/internal/model"

	"go.uber.org/zap"
)

// Recorder 由 *Tracker 实现
type Recorder interface {
	RecordClick(ctx context.Context, hostID string, clickType model.ClickType) (*Result, error)
}

// Dispatcher 后台异步处理点击事件，调用方不等待结果
type Dispatcher struct {
	recorder Recorder
	queue    chan model.ClickEvent
	workers  int
	timeout  time.Duration
	logger   *zap.SugaredLogger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher 创建分发器，queueSize 为队列容量
func NewDispatcher(recorder Recorder, queueSize, workers int, timeout time.Duration, logger *zap.SugaredLogger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{
		recorder: recorder,
		queue:    make(chan model.ClickEvent, queueSize),
		workers:  workers,
		timeout:  timeout,
		logger:   logger.Named("click_dispatcher"),
	}
}

// Start 启动 worker
func (d *Dispatcher) Start() {
	d.logger.Infof("启动点击分发器, workers=%d, 队列容量=%d", d.workers, cap(d.queue))
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
}

// Stop 停止接收新事件，处理完队列中剩余事件后返回
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.logger.Info("正在停止点击分发器...")
	d.wg.Wait()
	d.logger.Info("点击分发器已停止。")
}

// Dispatch 非阻塞入队，队列已满或已停止时返回 false
func (d *Dispatcher) Dispatch(ev model.ClickEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.logger.Warnf("分发器已停止，丢弃点击: host=%s type=%s", ev.HostID, ev.Type)
		return false
	}
	select {
	case d.queue <- ev:
		return true
	default:
		d.logger.Warnf("点击队列已满，丢弃点击: host=%s type=%s", ev.HostID, ev.Type)
		return false
	}
}

// Pending 队列中等待处理的事件数
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		res, err := d.recorder.RecordClick(ctx, ev.HostID, ev.Type)
		cancel()
		if err != nil {
			d.logger.Errorf("异步点击计数失败: host=%s type=%s err=%v", ev.HostID, ev.Type, err)
			continue
		}
		d.logger.Debugf("异步点击计数完成: host=%s type=%s count=%d", res.HostID, res.Type, res.NewCount)
	}
}

package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPoolSize    = 10
	defaultDialTimeout = 3 * time.Second
	defaultPingTimeout = 3 * time.Second
)

// Options 点击锁使用的 Redis 连接参数
type Options struct {
	Host     string
	Port     int
	Password string
	DB       int

	// 以下为 0 时使用默认值
	PoolSize    int
	DialTimeout time.Duration
	PingTimeout time.Duration
}

// Enabled Host 为空表示未配置 Redis
func (o *Options) Enabled() bool {
	return o != nil && o.Host != ""
}

// Addr host:port，端口为 0 时使用 6379
func (o *Options) Addr() string {
	port := o.Port
	if port == 0 {
		port = 6379
	}
	return net.JoinHostPort(o.Host, strconv.Itoa(port))
}

func (o *Options) clientOptions() *redis.Options {
	poolSize := o.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	dialTimeout := o.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	return &redis.Options{
		Addr:        o.Addr(),
		Password:    o.Password,
		DB:          o.DB,
		PoolSize:    poolSize,
		DialTimeout: dialTimeout,
	}
}

// NewRedisClient 连接 Redis 并 ping 一次
//
// 未配置时返回 (nil, nil)，ping 失败时关闭连接池并返回错误，
// 两种情况下调用方都退回进程内加锁。
func NewRedisClient(opts *Options) (*redis.Client, error) {
	if !opts.Enabled() {
		return nil, nil
	}

	client := redis.NewClient(opts.clientOptions())

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis连接失败 (%s): %w", opts.Addr(), err)
	}
	return client, nil
}

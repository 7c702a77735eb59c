package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// Options Redis 접속 옵션.
// 채팅 이벤트 pub/sub과 요약 캐시가 같은 인스턴스를 공유하므로
// PoolSize는 둘을 합친 동시성 기준으로 잡는다.
type Options struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

func (o Options) addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// NewClient Redis 클라이언트를 생성하고 ping으로 연결을 확인한다.
// 실패하면 에러를 반환하며, 호출측(cmd/api)은 Redis 없이 기동을 계속한다.
func NewClient(opts Options) (*redis.Client, error) {
	if opts.PoolSize <= 0 {
		opts.PoolSize = 10
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.addr(),
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		DialTimeout:  pingTimeout,
		ReadTimeout:  pingTimeout,
		WriteTimeout: pingTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", opts.addr(), err)
	}

	return client, nil
}

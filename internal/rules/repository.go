package rules

import "context"

// Cache 定义结果缓存的抽象操作
type Cache interface {
	// Get 返回缓存值；未命中时 ok=false
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set 写入缓存，ttlSeconds<=0 表示不过期
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
}

package core

import (
	"math/rand"
	"sync"
	"time"
)

// Rand 是随机源抽象。抖动与洗牌的随机性必须可注入：
// 生产用真实熵源，测试用固定种子复现。
type Rand interface {
	// Float64 返回 [0, 1) 上的均匀随机数
	Float64() float64
}

// lockedRand 是并发安全的 math/rand 包装。
// rand.Rand 本身不是并发安全的，多个 goroutine 共享同一源时需要加锁。
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRand 返回以 seed 为种子的并发安全随机源，用于测试复现。
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

// NewTimeRand 返回以当前时间为种子的并发安全随机源，生产默认。
func NewTimeRand() Rand {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

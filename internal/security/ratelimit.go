package security

import (
	"net"
	"net/http"
	"sync"
	"time"

	"photo-asset-server/config"
	"photo-asset-server/internal/util"
)

// rateLimiterShards : у каждого шарда свой mutex, чтобы конкурентные
// запросы с разных IP почти не дрались за одну блокировку
const rateLimiterShards = 16

// rateLimiterSweepInterval : не чаще этого интервала шард выметает
// простаивающие bucket-ы — перебор IP не раздувает память бесконечно
const rateLimiterSweepInterval = time.Minute

type bucket struct {
	tokens    float64
	lastCheck time.Time
}

type rateLimiterShard struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// RateLimiter : шардированный token bucket по ключу (IP клиента).
// Политика задаётся на класс endpoint-ов; нулевой RPS означает без лимита.
type RateLimiter struct {
	rps    float64
	burst  float64
	now    func() time.Time
	shards [rateLimiterShards]rateLimiterShard
}

func NewRateLimiter(policy config.RatePolicy) *RateLimiter {
	if policy.RPS <= 0 {
		return nil
	}
	burst := policy.Burst
	if burst < 1 {
		burst = policy.RPS
	}
	rl := &RateLimiter{rps: policy.RPS, burst: burst, now: time.Now}
	start := rl.now()
	for i := range rl.shards {
		rl.shards[i].buckets = make(map[string]*bucket)
		rl.shards[i].lastSweep = start
	}
	return rl
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl == nil {
		return true
	}

	s := &rl.shards[shardIndex(key)]
	s.mu.Lock()
	defer s.mu.Unlock()

	now := rl.now()
	if now.Sub(s.lastSweep) >= rateLimiterSweepInterval {
		s.sweep(now, rl.staleAfter())
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.burst, lastCheck: now}
		s.buckets[key] = b
	}

	elapsed := now.Sub(b.lastCheck).Seconds()
	b.tokens += elapsed * rl.rps
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastCheck = now

	if b.tokens < 1.0 {
		return false
	}
	b.tokens--
	return true
}

// staleAfter : bucket, простоявший дольше полного пополнения burst,
// неотличим от нового и может быть удалён без послабления лимита
func (rl *RateLimiter) staleAfter() time.Duration {
	refill := time.Duration(rl.burst / rl.rps * float64(time.Second))
	if refill < rateLimiterSweepInterval {
		return rateLimiterSweepInterval
	}
	return refill
}

// вызывается под mutex-ом шарда
func (s *rateLimiterShard) sweep(now time.Time, staleAfter time.Duration) {
	for key, b := range s.buckets {
		if now.Sub(b.lastCheck) >= staleAfter {
			delete(s.buckets, key)
		}
	}
	s.lastSweep = now
}

func shardIndex(key string) int {
	const (
		fnvOffset32 = uint32(2166136261)
		fnvPrime32  = uint32(16777619)
	)
	h := fnvOffset32
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= fnvPrime32
	}
	return int(h % uint32(rateLimiterShards))
}

// RateLimitMiddleware : проверяется первым, чтобы дёшево сбрасывать нагрузку
// до любых обращений к токенам, Redis и диску
func RateLimitMiddleware(limiter *RateLimiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				util.HandleError(w, "слишком много запросов", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Command authkit-loadtest exercises the session engine under concurrency:
// it stands up an in-process backend, logs in N independent sessions backed
// by a shared Redis token store, then hammers them with profile fetches while
// periodically expiring access tokens server-side to force 401-triggered
// refresh rotations.
//
// By default it runs against miniredis; point it at a real instance with
// -redis-addr or REDIS_ADDR.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authkit "github.com/fieldform/authkit"
	"github.com/fieldform/authkit/securestore"
)

func main() {
	var (
		sessions    = flag.Int("sessions", 64, "number of concurrent sessions")
		ops         = flag.Int("ops", 20000, "total profile fetches across all sessions")
		expireEvery = flag.Int("expire-every", 500, "expire all access tokens every N ops (0 disables)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *sessions <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "sessions and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	var cleanup func()
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		cleanup = mr.Close
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		cleanup = func() {}
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	backend := newLoadBackend()
	defer backend.srv.Close()

	fmt.Printf("logging in %d sessions...\n", *sessions)
	startLogin := time.Now()
	engines := make([]*authkit.Session, *sessions)
	for i := range engines {
		store := securestore.NewRedis(rdb, fmt.Sprintf("lt:%d:", i))
		s, err := authkit.New().
			WithConfig(authkit.Config{
				API:     authkit.APIConfig{BaseURL: backend.srv.URL},
				Metrics: authkit.MetricsConfig{Enabled: true},
			}).
			WithSecureStore(store).
			Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		err = s.Login(ctx, authkit.Credentials{
			Email:    fmt.Sprintf("load-%d@example.com", i),
			Password: "load-test",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "login %d failed: %v\n", i, err)
			os.Exit(1)
		}
		engines[i] = s
	}
	fmt.Printf("logged in, took %s\n", time.Since(startLogin).Round(time.Millisecond))

	var (
		opCount   atomic.Int64
		latencies = make([]time.Duration, *ops)
		wg        sync.WaitGroup
	)

	fmt.Printf("running %d ops across %d sessions...\n", *ops, *sessions)
	startOps := time.Now()
	wg.Add(*sessions)
	for i := 0; i < *sessions; i++ {
		go func(i int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(i)))
			s := engines[i]
			for {
				n := opCount.Add(1)
				if n > int64(*ops) {
					return
				}
				if *expireEvery > 0 && n%int64(*expireEvery) == 0 {
					backend.expireAccess()
				}
				opStart := time.Now()
				s.RefreshUserProfile(ctx)
				latencies[n-1] = time.Since(opStart)

				if rng.Intn(1000) == 0 {
					// Occasional explicit rotation mixed into the load.
					_, _ = s.RefreshAuthToken(ctx)
				}
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(startOps)

	sort.Slice(latencies, func(a, b int) bool { return latencies[a] < latencies[b] })
	pct := func(p float64) time.Duration {
		idx := int(float64(len(latencies)-1) * p)
		return latencies[idx]
	}

	fmt.Printf("done in %s (%.0f ops/sec)\n", elapsed.Round(time.Millisecond),
		float64(*ops)/elapsed.Seconds())
	fmt.Printf("latency p50=%s p95=%s p99=%s max=%s\n",
		pct(0.50).Round(time.Microsecond),
		pct(0.95).Round(time.Microsecond),
		pct(0.99).Round(time.Microsecond),
		latencies[len(latencies)-1].Round(time.Microsecond))

	var refreshes, retries uint64
	for _, s := range engines {
		snap := s.MetricsSnapshot()
		refreshes += snap.Counters[authkit.MetricRefreshSuccess]
		retries += snap.Counters[authkit.MetricRetryAfterRefresh]
	}
	fmt.Printf("refresh exchanges=%d retries-after-refresh=%d backend refresh calls=%d\n",
		refreshes, retries, backend.refreshCalls.Load())
}

// loadBackend is a token-issuing backend shared by every session. Bearer
// validity is tracked per token so an expiry sweep forces each session
// through the renew-and-retry path.
type loadBackend struct {
	srv *httptest.Server

	mu    sync.Mutex
	seq   int
	valid map[string]bool

	refreshCalls atomic.Int64
}

func newLoadBackend() *loadBackend {
	b := &loadBackend{valid: map[string]bool{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.writePair(w)
	})
	mux.HandleFunc("POST /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		b.writePair(w)
	})
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if len(token) > 7 {
			token = token[7:]
		}
		b.mu.Lock()
		ok := b.valid[token]
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"uid":   "load-user",
			"email": "load@example.com",
		})
	})

	b.srv = httptest.NewServer(mux)
	return b
}

func (b *loadBackend) writePair(w http.ResponseWriter) {
	b.mu.Lock()
	b.seq++
	access := fmt.Sprintf("LT%d", b.seq)
	refresh := fmt.Sprintf("LR%d", b.seq)
	b.valid[access] = true
	b.mu.Unlock()

	_ = json.NewEncoder(w).Encode(map[string]string{"token": access, "refreshToken": refresh})
}

func (b *loadBackend) expireAccess() {
	b.mu.Lock()
	b.valid = map[string]bool{}
	b.mu.Unlock()
}

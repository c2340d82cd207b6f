// Package health: 서비스 상태 정보와 의존성 점검
package health

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"
)

var (
	startTime = time.Now()
	version   = "dev"
	initOnce  sync.Once

	checksMu sync.RWMutex
	checks   = map[string]CheckFunc{}
)

// CheckFunc: 의존성 하나를 점검한다. nil 이면 정상.
type CheckFunc func(ctx context.Context) error

// Init: 서비스 시작 시 호출 (버전 정보 설정)
func Init(v string) {
	initOnce.Do(func() {
		startTime = time.Now()
		if v != "" {
			version = v
		}
	})
}

// Version: Init 으로 설정된 서비스 버전
func Version() string { return version }

// Register: 이름으로 의존성 점검을 등록한다. 같은 이름은 덮어쓴다.
func Register(name string, check CheckFunc) {
	checksMu.Lock()
	defer checksMu.Unlock()
	if check == nil {
		delete(checks, name)
		return
	}
	checks[name] = check
}

// Component: 의존성 점검 결과
type Component struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Response: /health 엔드포인트 표준 응답
type Response struct {
	Status     string      `json:"status"`
	Version    string      `json:"version"`
	Uptime     string      `json:"uptime"`
	Goroutines int         `json:"goroutines"`
	Components []Component `json:"components,omitempty"`
}

// Healthy: 모든 의존성이 정상인지 여부
func (r Response) Healthy() bool { return r.Status == "ok" }

// Get: 등록된 점검을 실행해 현재 상태를 반환한다. 하나라도 실패하면 "degraded".
func Get(ctx context.Context) Response {
	checksMu.RLock()
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	snapshot := make(map[string]CheckFunc, len(checks))
	for k, v := range checks {
		snapshot[k] = v
	}
	checksMu.RUnlock()
	sort.Strings(names)

	resp := Response{
		Status:     "ok",
		Version:    version,
		Uptime:     time.Since(startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
	}
	for _, name := range names {
		c := Component{Name: name, Status: "ok"}
		if err := snapshot[name](ctx); err != nil {
			c.Status = "down"
			c.Error = err.Error()
			resp.Status = "degraded"
		}
		resp.Components = append(resp.Components, c)
	}
	return resp
}

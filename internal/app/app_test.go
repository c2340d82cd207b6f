package app

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	commonconfig "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/config"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/health"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: commonconfig.ServerConfig{Host: "127.0.0.1", Port: 0},
		Database: commonconfig.DatabaseConfig{
			Driver:       "sqlite",
			DSN:          "file:" + t.Name() + "?mode=memory&cache=shared",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		},
		Cache: config.CacheConfig{
			LocalEntries:  16,
			LocalTTL:      time.Minute,
			RemoteTimeout: time.Second,
		},
		Admin: config.AdminConfig{APIKey: "secret"},
	}
}

func cleanupHealth(t *testing.T) {
	t.Cleanup(func() {
		for _, name := range []string{"valkey", "valkey_mq", "lexicon_db"} {
			health.Register(name, nil)
		}
	})
}

func TestInitialize_HTTPOnly(t *testing.T) {
	cleanupHealth(t)
	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	serverApp, cleanup, err := Initialize(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer cleanup()

	if len(serverApp.BackgroundTasks) != 0 {
		t.Fatalf("expected no background tasks, got %d", len(serverApp.BackgroundTasks))
	}

	body := `{"userAnswer":"Do not","correctAnswer":"don't"}`
	req := httptest.NewRequest(http.MethodPost, "/api/answers/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	serverApp.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"isCorrect":true`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}

	// 관리자 라우트는 키 없이 401
	req = httptest.NewRequest(http.MethodGet, "/api/admin/lexicon", nil)
	rec = httptest.NewRecorder()
	serverApp.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}

	resp := health.Get(context.Background())
	if !resp.Healthy() {
		t.Errorf("expected healthy, got %+v", resp)
	}
}

func TestInitialize_WithMQ(t *testing.T) {
	cleanupHealth(t)
	mr := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(mr.Addr())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg := testConfig(t)
	cfg.Database.Driver = "none"
	cfg.Valkey = commonconfig.ValkeyMQConfig{
		Enabled:        true,
		Host:           host,
		Port:           port,
		Timeout:        2 * time.Second,
		ConsumerGroup:  "answercheck-group",
		ConsumerName:   "test",
		StreamKey:      "answercheck:requests",
		ReplyStreamKey: "answercheck:replies",
		BatchSize:      10,
		BlockTimeout:   50 * time.Millisecond,
		Concurrency:    2,
		StreamMaxLen:   100,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	serverApp, cleanup, err := Initialize(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer cleanup()

	if len(serverApp.BackgroundTasks) != 1 || serverApp.BackgroundTasks[0].Name != "mq_consumer" {
		t.Fatalf("unexpected background tasks: %+v", serverApp.BackgroundTasks)
	}

	if _, err := mr.XAdd("answercheck:requests", "*", []string{
		"requestId", "r-1",
		"userAnswer", "veinticuatro",
		"correctAnswer", "24",
		"language", "es",
	}); err != nil {
		t.Fatalf("xadd failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serverApp.BackgroundTasks[0].Run(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	var replies []miniredis.StreamEntry
	for time.Now().Before(deadline) {
		replies, _ = mr.Stream("answercheck:replies")
		if len(replies) > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("consumer returned error: %v", err)
	}

	if len(replies) != 1 {
		t.Fatalf("expected one reply, got %d", len(replies))
	}
	got := map[string]string{}
	for i := 0; i+1 < len(replies[0].Values); i += 2 {
		got[replies[0].Values[i]] = replies[0].Values[i+1]
	}
	if got["requestId"] != "r-1" || got["isCorrect"] != "true" {
		t.Errorf("unexpected reply: %v", got)
	}
}

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ServerOptions: HTTP 서버 생성 옵션.
type ServerOptions struct {
	UseH2C            bool
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// TraceOperation: 비어 있지 않으면 otelhttp 로 감싼다 (span 이름).
	TraceOperation string
	// Logger: 패닉 복구 로그용. nil 이면 slog.Default().
	Logger *slog.Logger
}

// NewServer: 패닉 복구, (선택) OTel 추적, (선택) h2c 를 적용한 http.Server 를 만든다.
// 적용 순서는 바깥부터 h2c -> otelhttp -> recover -> handler.
func NewServer(addr string, handler http.Handler, opts ServerOptions) *http.Server {
	if handler == nil {
		handler = http.NewServeMux()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := Recover(logger, handler)
	if opts.TraceOperation != "" {
		h = otelhttp.NewHandler(h, opts.TraceOperation)
	}
	if opts.UseH2C {
		h = h2c.NewHandler(h, &http2.Server{})
	}

	readHeaderTimeout := opts.ReadHeaderTimeout
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       opts.IdleTimeout,
	}
	if opts.MaxHeaderBytes > 0 {
		server.MaxHeaderBytes = opts.MaxHeaderBytes
	}
	return server
}

// Recover: 핸들러 패닉을 500 응답으로 바꾸고 스택을 남긴다.
func Recover(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "http_handler_panic",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

// Serve: server.Addr 에서 리슨하고 ctx 종료 시 우아하게 종료한다.
func Serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("http server listen failed addr=%s: %w", server.Addr, err)
	}
	return ServeListener(ctx, server, ln, shutdownTimeout)
}

// ServeListener: 이미 열린 리스너로 서비스한다. ctx 가 끝나면 shutdownTimeout 안에 종료한다.
func ServeListener(ctx context.Context, server *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server serve failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		err := <-errCh
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server stopped with error: %w", err)
	}
}

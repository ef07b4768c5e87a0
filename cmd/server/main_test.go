package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/accountability/ledger/internal/adapter/http/middleware"
	"github.com/accountability/ledger/internal/infrastructure/config"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:         "9090",
		HTTPReadTimeout:  5 * time.Second,
		HTTPWriteTimeout: 7 * time.Second,
		HTTPIdleTimeout:  11 * time.Second,
	}

	srv := newHTTPServer(cfg, http.NotFoundHandler())

	if srv.Addr != ":9090" {
		t.Fatalf("expected :9090, got %s", srv.Addr)
	}
	if srv.ReadTimeout != 5*time.Second || srv.WriteTimeout != 7*time.Second || srv.IdleTimeout != 11*time.Second {
		t.Fatalf("timeouts not applied: %+v", srv)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, ln, time.Second) }()

	resp, err := http.Get("http://" + ln.Addr().String())
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServe_ReportsListenerFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ln.Close()

	err = serve(context.Background(), &http.Server{}, ln, time.Second)
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("expected serve error, got %v", err)
	}
}

func TestSweepLimiters_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sweepLimiters(ctx, middleware.NewRateLimiter(1, 1), time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

package redis

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClient_ConnectsToDatabaseFromURL(t *testing.T) {
	s := miniredis.RunT(t)

	ctx := context.Background()
	client, err := NewClient(ctx, "redis://"+s.Addr()+"/3", WithPoolSize(4))
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer client.Close()

	if got := client.Options().DB; got != 3 {
		t.Fatalf("expected database 3, got %d", got)
	}
	if got := client.Options().PoolSize; got != 4 {
		t.Fatalf("expected pool size 4, got %d", got)
	}

	if err := client.Set(ctx, "hierarchy:co-1", "[]", 0).Err(); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	s.Select(3)
	if !s.Exists("hierarchy:co-1") {
		t.Fatalf("expected key in database 3")
	}
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url")

	if err == nil || !strings.Contains(err.Error(), "parse redis URL") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestNewClient_PingTimeout(t *testing.T) {
	// A listener that accepts connections but never answers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	url := "redis://" + ln.Addr().String() + "?read_timeout=100ms&dial_timeout=100ms"
	_, err = NewClient(context.Background(), url, WithPingTimeout(200*time.Millisecond))

	if err == nil || !strings.Contains(err.Error(), "ping redis") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestPing_ReportsServerLoss(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+s.Addr())
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer client.Close()

	check := Ping(client, 200*time.Millisecond)
	if err := check(context.Background()); err != nil {
		t.Fatalf("expected healthy redis, got %v", err)
	}

	s.Close()

	if err := check(context.Background()); err == nil {
		t.Fatal("expected ping failure after server shutdown")
	}
}

func TestPing_HonoursCallerDeadline(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+s.Addr())
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Ping(client, time.Second)(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

package redis

import (
	"context"
	"testing"

	"github.com/relayhq/relaypay-backend/pkg/config"
)

func configRedis(url string) config.RedisConfig {
	return config.RedisConfig{URL: url}
}

func TestBuildKeyNamespacing(t *testing.T) {
	c := &Client{}
	if got := c.IdempotencyKey("payroll.run", "abc"); got != "rp:idempotency:payroll.run:abc" {
		t.Fatalf("unexpected idempotency key: %s", got)
	}
	if got := c.IdempotencyKey("", "abc"); got != "rp:idempotency:abc" {
		t.Fatalf("empty scope should be skipped: %s", got)
	}
	if got := c.CounterKey("runs"); got != "rp:counter:runs" {
		t.Fatalf("unexpected counter key: %s", got)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	c := &Client{}
	ctx := context.Background()
	if err := c.Ping(ctx); err == nil {
		t.Fatal("expected ping error on uninitialized client")
	}
	if _, err := c.Get(ctx, "k"); err == nil {
		t.Fatal("expected get error on uninitialized client")
	}
	if _, err := c.SetNX(ctx, "k", "v", 0); err == nil {
		t.Fatal("expected setnx error on uninitialized client")
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(configRedis("")); err == nil {
		t.Fatal("expected error when neither url nor address set")
	}
	opts, err := optionsFromConfig(configRedis("redis://localhost:6379/2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2 from url, got %d", opts.DB)
	}
}

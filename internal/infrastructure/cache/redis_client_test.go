package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_ = client.Close()

	if _, err := ConnectRedis(context.Background(), "http://not-redis"); err == nil {
		t.Fatalf("expected parse error")
	}
}

package health

import (
	"context"
	"errors"
	"testing"
)

func TestGet_Degraded(t *testing.T) {
	Register("cache", func(context.Context) error { return nil })
	Register("lexicon_db", func(context.Context) error { return errors.New("down") })
	t.Cleanup(func() {
		Register("cache", nil)
		Register("lexicon_db", nil)
	})

	resp := Get(context.Background())
	if resp.Healthy() {
		t.Fatalf("expected degraded, got %+v", resp)
	}
	if len(resp.Components) != 2 || resp.Components[0].Name != "cache" || resp.Components[1].Status != "down" {
		t.Errorf("unexpected components: %+v", resp.Components)
	}
}

func TestGet_OK(t *testing.T) {
	Init("1.2.3")
	resp := Get(context.Background())
	if !resp.Healthy() || resp.Version != "1.2.3" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/testhelper"
)

func TestAnswerSetKey_CacheKey(t *testing.T) {
	a := AnswerSetKey{Version: "v1", Language: "en", AllowSynonyms: true, Spec: "happy"}
	b := a
	b.AllowSynonyms = false
	c := a
	c.Version = "v2"

	if a.CacheKey() == b.CacheKey() || a.CacheKey() == c.CacheKey() {
		t.Fatalf("keys must differ by synonyms and version")
	}
	if !strings.HasPrefix(a.CacheKey(), "answercheck:answerset:v1:en:true:") {
		t.Fatalf("unexpected key layout: %s", a.CacheKey())
	}
	if strings.Contains(a.CacheKey(), "happy") {
		t.Fatalf("spec must be hashed: %s", a.CacheKey())
	}
}

func TestAnswerSetStore_SetGet(t *testing.T) {
	client, mr := testhelper.NewMiniredisClient(t)
	store := NewAnswerSetStore(client, time.Minute, nil)
	ctx := context.Background()
	key := AnswerSetKey{Version: "v1", Language: "es", AllowSynonyms: true, Spec: "mamá"}

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	members := []string{"mamá", "madre"}
	if err := store.Set(ctx, key, members); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0] != "mamá" || got[1] != "madre" {
		t.Fatalf("unexpected members: %v", got)
	}

	if ttl := mr.TTL(key.CacheKey()); ttl != time.Minute {
		t.Fatalf("unexpected ttl: %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Fatalf("expected expiry")
	}
}

func TestAnswerSetStore_CorruptValueIsMiss(t *testing.T) {
	client, mr := testhelper.NewMiniredisClient(t)
	store := NewAnswerSetStore(client, 0, nil)
	key := AnswerSetKey{Version: "v1", Language: "en", Spec: "x"}

	if err := mr.Set(key.CacheKey(), "not-zstd"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, ok, err := store.Get(context.Background(), key); ok || err != nil {
		t.Fatalf("expected silent miss, ok=%v err=%v", ok, err)
	}
}

func TestAnswerSetStore_ConnectionError(t *testing.T) {
	client, mr := testhelper.NewMiniredisClient(t)
	store := NewAnswerSetStore(client, time.Minute, nil)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, _, err := store.Get(ctx, AnswerSetKey{Version: "v", Spec: "x"}); err == nil {
		t.Fatalf("expected error after server close")
	}
}

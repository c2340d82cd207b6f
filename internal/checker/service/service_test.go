package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/answer"
	checkerredis "github.com/park285/llm-kakao-bots/answer-check-go/internal/checker/redis"
	cerrors "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/testhelper"
)

func boolPtr(v bool) *bool { return &v }

type staticOverrides struct {
	synonyms map[string]string
	err      error
}

func (o *staticOverrides) ApplyTo(_ context.Context, base answer.Tables) (answer.Tables, error) {
	if o.err != nil {
		return answer.Tables{}, o.err
	}
	out := base.Clone()
	for term, syn := range o.synonyms {
		out.AddSynonym("en", term, syn)
	}
	return out, nil
}

type countingCache struct {
	inner *checkerredis.AnswerSetStore
	gets  atomic.Int32
	sets  atomic.Int32
}

func (c *countingCache) Get(ctx context.Context, key checkerredis.AnswerSetKey) ([]string, bool, error) {
	c.gets.Add(1)
	return c.inner.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key checkerredis.AnswerSetKey, members []string) error {
	c.sets.Add(1)
	return c.inner.Set(ctx, key, members)
}

func defaultTables(t *testing.T) answer.Tables {
	t.Helper()
	tables, err := answer.DefaultTables()
	if err != nil {
		t.Fatalf("default tables failed: %v", err)
	}
	return tables
}

func newService(t *testing.T, overrides TableSource, remote AnswerSetCache) *Service {
	t.Helper()
	svc, err := New(context.Background(), defaultTables(t), overrides, remote, Options{
		LocalCacheEntries: 64,
		LocalCacheTTL:     time.Minute,
	}, nil)
	if err != nil {
		t.Fatalf("new service failed: %v", err)
	}
	return svc
}

func TestService_Validate(t *testing.T) {
	svc := newService(t, nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  Request
		want answer.MatchResult
	}{
		{"accent missing", Request{UserAnswer: "mama", CorrectAnswer: "mamá", Language: "es"}, answer.MatchResult{IsCorrect: true, MissingAccents: true}},
		{"exact", Request{UserAnswer: "mamá", CorrectAnswer: "mamá", Language: "es"}, answer.MatchResult{IsCorrect: true}},
		{"default language", Request{UserAnswer: "24", CorrectAnswer: "twenty-four"}, answer.MatchResult{IsCorrect: true, MissingAccents: true}},
		{"synonyms off", Request{UserAnswer: "glad", CorrectAnswer: "happy", AllowSynonyms: boolPtr(false)}, answer.MatchResult{}},
		{"blank user", Request{UserAnswer: "  ", CorrectAnswer: "happy"}, answer.MatchResult{}},
		{"wrong", Request{UserAnswer: "cat", CorrectAnswer: "dog"}, answer.MatchResult{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Validate(ctx, tc.req)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestService_ValidateUsesSharedCache(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	remote := &countingCache{inner: checkerredis.NewAnswerSetStore(client, time.Minute, nil)}
	ctx := context.Background()

	first := newService(t, nil, remote)
	req := Request{UserAnswer: "recycle", CorrectAnswer: "(to) recycle"}
	if res, err := first.Validate(ctx, req); err != nil || !res.IsCorrect {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
	if remote.sets.Load() != 1 {
		t.Fatalf("expected remote fill, sets=%d", remote.sets.Load())
	}

	// 같은 인스턴스의 두 번째 호출은 로컬 캐시에서 끝난다
	if _, err := first.Validate(ctx, req); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if remote.gets.Load() != 1 {
		t.Fatalf("expected local hit, gets=%d", remote.gets.Load())
	}

	// 다른 인스턴스는 원격 캐시를 재사용한다
	second := newService(t, nil, remote)
	if res, err := second.Validate(ctx, req); err != nil || !res.IsCorrect {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
	if remote.sets.Load() != 1 {
		t.Fatalf("expected remote hit without refill, sets=%d", remote.sets.Load())
	}
}

func TestService_CacheFailureDegrades(t *testing.T) {
	client, mr := testhelper.NewMiniredisClient(t)
	svc, err := New(context.Background(), defaultTables(t), nil, checkerredis.NewAnswerSetStore(client, time.Minute, nil), Options{
		RemoteTimeout: 200 * time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("new service failed: %v", err)
	}
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := svc.Validate(ctx, Request{UserAnswer: "color", CorrectAnswer: "colour"})
	if err != nil {
		t.Fatalf("cache failure must not fail validation: %v", err)
	}
	if !res.IsCorrect {
		t.Fatalf("expected correct, got %+v", res)
	}
}

func TestService_ReloadAppliesOverrides(t *testing.T) {
	overrides := &staticOverrides{}
	svc := newService(t, overrides, nil)
	ctx := context.Background()
	req := Request{UserAnswer: "jolly", CorrectAnswer: "merry"}

	if res, _ := svc.Validate(ctx, req); res.IsCorrect {
		t.Fatalf("expected no match before override")
	}
	before := svc.Current()

	overrides.synonyms = map[string]string{"merry": "jolly"}
	snap, err := svc.Reload(ctx)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if snap.Version == before.Version || snap.Generation != before.Generation+1 {
		t.Fatalf("expected new version, before=%+v after=%+v", before, snap)
	}
	if res, _ := svc.Validate(ctx, req); !res.IsCorrect {
		t.Fatalf("expected override synonym to match")
	}

	overrides.err = errors.New("db down")
	if _, err := svc.Reload(ctx); err == nil {
		t.Fatalf("expected reload error")
	}
	if svc.Current().Version != snap.Version {
		t.Fatalf("failed reload must keep previous snapshot")
	}
}

func TestService_ValidateBatch(t *testing.T) {
	svc := newService(t, nil, nil)
	reqs := []Request{
		{UserAnswer: "gray", CorrectAnswer: "grey"},
		{UserAnswer: "no", CorrectAnswer: "yes"},
		{UserAnswer: "cafe", CorrectAnswer: "café", Language: "fr"},
		{UserAnswer: "veinticuatro", CorrectAnswer: "24", Language: "es"},
	}

	results, err := svc.ValidateBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []answer.MatchResult{
		{IsCorrect: true},
		{},
		{IsCorrect: true, MissingAccents: true},
		{IsCorrect: true, MissingAccents: true},
	}
	if len(results) != len(want) {
		t.Fatalf("unexpected length: %d", len(results))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("item %d: got %+v, want %+v", i, results[i], want[i])
		}
	}
}

func TestService_ValidateBatchTooLarge(t *testing.T) {
	svc, err := New(context.Background(), defaultTables(t), nil, nil, Options{MaxBatchItems: 2}, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	_, err = svc.ValidateBatch(context.Background(), make([]Request, 3))
	var tooLarge cerrors.BatchTooLargeError
	if !errors.As(err, &tooLarge) || tooLarge.Limit != 2 {
		t.Fatalf("expected BatchTooLargeError, got %v", err)
	}
}

func TestService_ExpandAndNormalize(t *testing.T) {
	svc := newService(t, nil, nil)

	members, err := svc.Expand(context.Background(), "(to) recycle", "en", false)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	found := map[string]bool{}
	for _, m := range members {
		found[m] = true
	}
	if !found["to recycle"] || !found["recycle"] {
		t.Fatalf("unexpected members: %v", members)
	}

	normalized, number := svc.Normalize("  Twenty-Four! ", "EN")
	if normalized != "twenty-four" || number != "24" {
		t.Fatalf("unexpected normalize: %q %q", normalized, number)
	}

	if langs := svc.Languages(); len(langs) == 0 {
		t.Fatalf("expected languages")
	}
}

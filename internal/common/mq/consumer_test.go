package mq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/testhelper"
)

func TestStreamPublisher_PublishAndTrim(t *testing.T) {
	client, mr := testhelper.NewMiniredisClient(t)
	pub := NewStreamPublisher(client, nil, StreamPublisherConfig{Stream: "s:pub", MaxLen: 1000})

	id, err := pub.Publish(context.Background(), map[string]string{"b": "2", "a": "1"})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected message id")
	}

	entries, err := mr.Stream("s:pub")
	if err != nil {
		t.Fatalf("stream read failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].Values; len(got) != 4 || got[0] != "a" || got[2] != "b" {
		t.Fatalf("unexpected field order: %v", got)
	}

	if _, err := pub.Publish(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty values")
	}
}

func TestStreamConsumer_DeliversAndAcks(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	consumer := NewStreamConsumer(client, nil, StreamConsumerConfig{
		Stream:         "s:req",
		Group:          "g",
		Name:           "c1",
		Block:          50 * time.Millisecond,
		Concurrency:    2,
		GroupStartFrom: "0",
	})

	var mu sync.Mutex
	received := map[string]string{}
	done := make(chan struct{})
	handler := func(_ context.Context, msg XMessage) error {
		mu.Lock()
		defer mu.Unlock()
		received[msg.Values["requestId"]] = msg.ID
		if len(received) == 2 {
			close(done)
		}
		return nil
	}

	pub := NewStreamPublisher(client, nil, StreamPublisherConfig{Stream: "s:req"})
	for _, id := range []string{"r1", "r2"} {
		if _, err := pub.Publish(ctx, map[string]string{"requestId": id}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}

	runCtx, stop := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- consumer.Run(runCtx, handler) }()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("timed out waiting for messages")
	}
	stop()

	if err := <-errCh; err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	pending, err := client.Do(context.Background(), client.B().Xpending().Key("s:req").Group("g").Build()).ToArray()
	if err != nil {
		t.Fatalf("xpending failed: %v", err)
	}
	count, err := pending[0].AsInt64()
	if err != nil {
		t.Fatalf("pending count parse failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected all messages acked, pending=%d", count)
	}
}

func TestStreamConsumer_KeepsFailedMessagesPending(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub := NewStreamPublisher(client, nil, StreamPublisherConfig{Stream: "s:fail"})
	if _, err := pub.Publish(ctx, map[string]string{"requestId": "x"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	called := make(chan struct{}, 1)
	consumer := NewStreamConsumer(client, nil, StreamConsumerConfig{
		Stream: "s:fail", Group: "g", Name: "c1",
		Block: 50 * time.Millisecond, GroupStartFrom: "0",
	})

	runCtx, stop := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Run(runCtx, func(context.Context, XMessage) error {
			select {
			case called <- struct{}{}:
			default:
			}
			return errors.New("handler failed")
		})
	}()

	select {
	case <-called:
	case <-ctx.Done():
		t.Fatalf("handler never called")
	}
	stop()
	<-errCh

	pending, err := client.Do(context.Background(), client.B().Xpending().Key("s:fail").Group("g").Build()).ToArray()
	if err != nil {
		t.Fatalf("xpending failed: %v", err)
	}
	count, _ := pending[0].AsInt64()
	if count != 1 {
		t.Fatalf("expected failed message to stay pending, got %d", count)
	}
}

func TestStreamConsumer_ReclaimsStalePendingMessages(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub := NewStreamPublisher(client, nil, StreamPublisherConfig{Stream: "s:reclaim"})
	if _, err := pub.Publish(ctx, map[string]string{"requestId": "r1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})
	consumer := NewStreamConsumer(client, nil, StreamConsumerConfig{
		Stream: "s:reclaim", Group: "g", Name: "c1",
		Block: 20 * time.Millisecond, GroupStartFrom: "0",
		ClaimMinIdle: 30 * time.Millisecond, ClaimInterval: 30 * time.Millisecond,
	})

	runCtx, stop := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Run(runCtx, func(_ context.Context, msg XMessage) error {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			if attempts == 1 {
				return errors.New("transient failure")
			}
			if attempts == 2 {
				if msg.Values["requestId"] != "r1" {
					t.Errorf("unexpected reclaimed message: %+v", msg.Values)
				}
				close(done)
			}
			return nil
		})
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("failed message was never redelivered")
	}
	stop()
	if err := <-errCh; err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	pending, err := client.Do(context.Background(), client.B().Xpending().Key("s:reclaim").Group("g").Build()).ToArray()
	if err != nil {
		t.Fatalf("xpending failed: %v", err)
	}
	count, _ := pending[0].AsInt64()
	if count != 0 {
		t.Fatalf("expected reclaimed message to be acked, got %d pending", count)
	}
	mu.Lock()
	defer mu.Unlock()
	if attempts != 2 {
		t.Fatalf("expected exactly two attempts, got %d", attempts)
	}
}

func TestStreamConsumer_RejectsIncompleteConfig(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	consumer := NewStreamConsumer(client, nil, StreamConsumerConfig{Stream: "s"})
	if err := consumer.Run(context.Background(), func(context.Context, XMessage) error { return nil }); err == nil {
		t.Fatalf("expected config error")
	}
}

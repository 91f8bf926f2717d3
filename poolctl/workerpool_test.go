package poolctl

import (
	"context"
	"testing"
)

func TestWorkerPool_RunReturnsResult(t *testing.T) {
	p := NewWorkerPool(2, 100)
	v, err := p.Run(context.Background(), func() (any, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if v.(int) != 42 {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestWorkerPool_RunPropagatesCancellation(t *testing.T) {
	p := NewWorkerPool(1, 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, func() (any, error) {
		return nil, nil
	})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

package ctxutil

import (
	"context"
	"testing"
)

func TestRequestAndClientID(t *testing.T) {
	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
	if got := ClientID(ctx); got != "" {
		t.Fatalf("expected empty client id, got %q", got)
	}
	ctx = WithRequestID(ctx, "rid-1")
	ctx = WithClientID(ctx, "cid-1")
	if got := RequestID(ctx); got != "rid-1" {
		t.Fatalf("request id mismatch, got %q", got)
	}
	if got := ClientID(ctx); got != "cid-1" {
		t.Fatalf("client id mismatch, got %q", got)
	}
}

func TestLogFields(t *testing.T) {
	if got := LogFields(context.Background()); len(got) != 0 {
		t.Fatalf("expected no fields, got %v", got)
	}
	ctx := WithRequestID(context.Background(), "rid-2")
	got := LogFields(ctx)
	if got["request_id"] != "rid-2" {
		t.Fatalf("request_id mismatch: %v", got)
	}
	if _, ok := got["client_id"]; ok {
		t.Fatalf("client_id should be omitted when unset: %v", got)
	}
}

package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := Session{
		SessionID: "sid-1",
		AccountID: "acct-1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got == nil || got.AccountID != "acct-1" {
		t.Fatalf("unexpected session %+v", got)
	}

	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	got, _ = store.Get(ctx, "sid-1")
	if got != nil {
		t.Fatal("session survived delete")
	}
}

func TestMemoryStore_ExpiredDroppedOnRead(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := Session{
		SessionID: "sid-1",
		AccountID: "acct-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != nil {
		t.Fatal("expired session returned")
	}
}

func TestGenerateID_Unique(t *testing.T) {
	a, err := GenerateID()
	if err != nil {
		t.Fatalf("GenerateID returned error: %v", err)
	}
	b, err := GenerateID()
	if err != nil {
		t.Fatalf("GenerateID returned error: %v", err)
	}
	if a == b {
		t.Fatal("two generated ids collided")
	}
	if len(a) != 43 { // 32 bytes base64url, unpadded
		t.Errorf("unexpected id length %d", len(a))
	}
}

package hub

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"sketchsync/internal/room"
)

func recvRoom(t *testing.T, ch <-chan *room.Room, within time.Duration) *room.Room {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(within):
		t.Fatalf("timed out waiting for room reply")
		return nil // unreachable
	}
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *room.Room, 1)

	h.Inbox() <- CreateRoom{ID: "room-1", Reply: reply}
	r1 := recvRoom(t, reply, 100*time.Millisecond)

	h.Inbox() <- GetRoom{ID: "room-1", Reply: reply}
	r2 := recvRoom(t, reply, 100*time.Millisecond)

	if r1 == nil || r2 == nil || r1 != r2 {
		t.Fatalf("expected same room pointer")
	}
}

func TestHub_CreateTwice_KeepsFirst(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *room.Room, 1)

	h.Inbox() <- CreateRoom{ID: "room-1", Reply: reply}
	r1 := recvRoom(t, reply, 100*time.Millisecond)

	h.Inbox() <- CreateRoom{ID: "room-1", Reply: reply}
	r2 := recvRoom(t, reply, 100*time.Millisecond)

	if r1 != r2 {
		t.Fatalf("duplicate create must return the existing room")
	}
}

func TestHub_GetUnknown_IsNil(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *room.Room, 1)

	h.Inbox() <- GetRoom{ID: "nope", Reply: reply}
	if r := recvRoom(t, reply, 100*time.Millisecond); r != nil {
		t.Fatalf("unknown room must reply nil, got %v", r)
	}
}

func TestHub_EnsureRoom_CreatesOnDemand(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *room.Room, 1)

	h.Inbox() <- EnsureRoom{ID: "fresh", Reply: reply}
	r1 := recvRoom(t, reply, 100*time.Millisecond)
	if r1 == nil {
		t.Fatalf("ensure must create the room")
	}

	h.Inbox() <- EnsureRoom{ID: "fresh", Reply: reply}
	if r2 := recvRoom(t, reply, 100*time.Millisecond); r2 != r1 {
		t.Fatalf("ensure must reuse the existing room")
	}
}

func TestHub_RemoveRoom(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *room.Room, 1)

	h.Inbox() <- CreateRoom{ID: "room-1", Reply: reply}
	recvRoom(t, reply, 100*time.Millisecond)

	h.Inbox() <- RemoveRoom{ID: "room-1"}

	h.Inbox() <- GetRoom{ID: "room-1", Reply: reply}
	if r := recvRoom(t, reply, 100*time.Millisecond); r != nil {
		t.Fatalf("removed room must be gone")
	}
}

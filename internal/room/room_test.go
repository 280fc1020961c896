package room

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"sketchsync/internal/protocol"
	"sketchsync/internal/shape"
)

// helper: receive one message with a timeout so tests never hang
func recvMsg(t *testing.T, ch <-chan protocol.ServerMessage, within time.Duration) protocol.ServerMessage {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatalf("client outbox closed unexpectedly")
		}
		return msg
	case <-time.After(within):
		t.Fatalf("timed out waiting for message")
		return protocol.ServerMessage{} // unreachable
	}
}

func recvNoMsg(t *testing.T, ch <-chan protocol.ServerMessage, within time.Duration) {
	t.Helper()
	select {
	case m, ok := <-ch:
		if !ok {
			// channel closed → no further messages possible
			return
		}
		t.Fatalf("expected no message within %v, but got: %+v", within, m)
	case <-time.After(within):
		// good: quiet
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func getState(t *testing.T, r *Room) View {
	t.Helper()
	reply := make(chan View, 1)
	r.Inbox() <- GetState{Reply: reply}
	return recvView(t, reply, 100*time.Millisecond)
}

func seedRect(id string) shape.Shape {
	return shape.Shape{ID: id, Type: shape.ToolRectangle, X: 1, Y: 2, Width: 3, Height: 4}
}

func TestRoom_JoinSeedsShapesAndReplies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	out := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- Join{
		ClientID: "c1", UserID: "u1", Name: "user-u1",
		Shapes: []shape.Shape{seedRect("s1"), seedRect("s2")},
		Outbox: out,
	}

	msg := recvMsg(t, out, 100*time.Millisecond)
	if msg.Type != protocol.EvtJoined {
		t.Fatalf("want %q, got %q", protocol.EvtJoined, msg.Type)
	}
	if msg.Data == nil || msg.Data.RoomID != "room-1" || msg.Data.UserID != "u1" {
		t.Fatalf("joined data wrong: %+v", msg.Data)
	}

	view := getState(t, r)
	if len(view.Shapes) != 2 {
		t.Fatalf("want 2 seeded shapes, got %d", len(view.Shapes))
	}
}

func TestRoom_JoinRoomSnapshotAndPresence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	aOut := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- Join{ClientID: "cA", UserID: "uA", Name: "user-uA",
		Shapes: []shape.Shape{seedRect("s1")}, Outbox: aOut}
	recvMsg(t, aOut, 100*time.Millisecond) // joined

	bOut := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- JoinRoom{ClientID: "cB", UserID: "uB", Name: "user-uB", Outbox: bOut}

	// B gets the snapshot with A's shapes and A in the roster.
	snap := recvMsg(t, bOut, 100*time.Millisecond)
	if snap.Type != protocol.EvtRoomJoined {
		t.Fatalf("want %q, got %q", protocol.EvtRoomJoined, snap.Type)
	}
	if len(snap.Data.Shapes) != 1 || snap.Data.Shapes[0].ID != "s1" {
		t.Fatalf("snapshot shapes wrong: %+v", snap.Data.Shapes)
	}
	if len(snap.Data.ExistingUsers) != 1 || snap.Data.ExistingUsers[0].ID != "uA" {
		t.Fatalf("roster must list only the members present before the join, got %+v", snap.Data.ExistingUsers)
	}

	// A gets the presence event; B does not hear about itself.
	pres := recvMsg(t, aOut, 100*time.Millisecond)
	if pres.Type != protocol.EvtUserRoomJoined || pres.Data.ID != "uB" {
		t.Fatalf("presence event wrong: %+v", pres)
	}
	recvNoMsg(t, bOut, 50*time.Millisecond)
}

func TestRoom_CreateShapeBroadcastExcludesSender(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	aOut := make(chan protocol.ServerMessage, 4)
	bOut := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- Join{ClientID: "cA", UserID: "uA", Name: "user-uA", Outbox: aOut}
	recvMsg(t, aOut, 100*time.Millisecond)
	r.Inbox() <- JoinRoom{ClientID: "cB", UserID: "uB", Name: "user-uB", Outbox: bOut}
	recvMsg(t, bOut, 100*time.Millisecond)
	recvMsg(t, aOut, 100*time.Millisecond) // presence

	s := seedRect("s9")
	r.Inbox() <- FromClient{ClientID: "cA", Msg: protocol.ClientMessage{
		Type:    protocol.MsgCreateShape,
		Payload: &protocol.ClientPayload{RoomID: "room-1", Shape: &s},
	}}

	got := recvMsg(t, bOut, 100*time.Millisecond)
	if got.Type != protocol.EvtShapeCreated || got.Data.Shape.ID != "s9" {
		t.Fatalf("broadcast wrong: %+v", got)
	}
	if got.Data.Name != "user-uA" {
		t.Fatalf("creator name missing: %+v", got.Data)
	}
	recvNoMsg(t, aOut, 50*time.Millisecond)

	view := getState(t, r)
	if len(view.Shapes) != 1 {
		t.Fatalf("room must hold the created shape, got %d", len(view.Shapes))
	}
}

func TestRoom_ResizeBroadcastsUpdatedShape(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	aOut := make(chan protocol.ServerMessage, 4)
	bOut := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- Join{ClientID: "cA", UserID: "uA", Name: "user-uA",
		Shapes: []shape.Shape{seedRect("s1")}, Outbox: aOut}
	recvMsg(t, aOut, 100*time.Millisecond)
	r.Inbox() <- JoinRoom{ClientID: "cB", UserID: "uB", Name: "user-uB", Outbox: bOut}
	recvMsg(t, bOut, 100*time.Millisecond)
	recvMsg(t, aOut, 100*time.Millisecond)

	resized := seedRect("s1")
	resized.Width = 99
	r.Inbox() <- FromClient{ClientID: "cA", Msg: protocol.ClientMessage{
		Type:    protocol.MsgResizeShape,
		Payload: &protocol.ClientPayload{RoomID: "room-1", Shape: &resized},
	}}

	got := recvMsg(t, bOut, 100*time.Millisecond)
	if got.Type != protocol.EvtResizedShape || got.Data.UpdatedShape == nil {
		t.Fatalf("resize broadcast wrong: %+v", got)
	}
	if got.Data.UpdatedShape.Width != 99 {
		t.Fatalf("resize must carry the full updated shape, got %+v", got.Data.UpdatedShape)
	}

	view := getState(t, r)
	if view.Shapes[0].Width != 99 {
		t.Fatalf("room state not updated: %+v", view.Shapes[0])
	}
}

func TestRoom_LastWriteWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	aOut := make(chan protocol.ServerMessage, 8)
	bOut := make(chan protocol.ServerMessage, 8)
	r.Inbox() <- Join{ClientID: "cA", UserID: "uA", Name: "user-uA",
		Shapes: []shape.Shape{seedRect("s1")}, Outbox: aOut}
	recvMsg(t, aOut, 100*time.Millisecond)
	r.Inbox() <- JoinRoom{ClientID: "cB", UserID: "uB", Name: "user-uB", Outbox: bOut}
	recvMsg(t, bOut, 100*time.Millisecond)
	recvMsg(t, aOut, 100*time.Millisecond)

	// Two concurrent resizes of the same shape: the one the room applies
	// last wins outright, no merging.
	fromA := seedRect("s1")
	fromA.Width = 50
	fromB := seedRect("s1")
	fromB.Width = 70
	r.Inbox() <- FromClient{ClientID: "cA", Msg: protocol.ClientMessage{
		Type: protocol.MsgResizeShape, Payload: &protocol.ClientPayload{Shape: &fromA}}}
	r.Inbox() <- FromClient{ClientID: "cB", Msg: protocol.ClientMessage{
		Type: protocol.MsgResizeShape, Payload: &protocol.ClientPayload{Shape: &fromB}}}

	recvMsg(t, bOut, 100*time.Millisecond) // A's update
	recvMsg(t, aOut, 100*time.Millisecond) // B's update

	view := getState(t, r)
	if view.Shapes[0].Width != 70 {
		t.Fatalf("last write must win, got width %v", view.Shapes[0].Width)
	}
}

func TestRoom_ClearCanvas(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	aOut := make(chan protocol.ServerMessage, 4)
	bOut := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- Join{ClientID: "cA", UserID: "uA", Name: "user-uA",
		Shapes: []shape.Shape{seedRect("s1"), seedRect("s2")}, Outbox: aOut}
	recvMsg(t, aOut, 100*time.Millisecond)
	r.Inbox() <- JoinRoom{ClientID: "cB", UserID: "uB", Name: "user-uB", Outbox: bOut}
	recvMsg(t, bOut, 100*time.Millisecond)
	recvMsg(t, aOut, 100*time.Millisecond)

	r.Inbox() <- FromClient{ClientID: "cB", Msg: protocol.ClientMessage{Type: protocol.MsgClearCanvas}}

	got := recvMsg(t, aOut, 100*time.Millisecond)
	if got.Type != protocol.EvtCanvasCleared {
		t.Fatalf("want %q, got %q", protocol.EvtCanvasCleared, got.Type)
	}

	view := getState(t, r)
	if len(view.Shapes) != 0 {
		t.Fatalf("canvas must be empty, got %d shapes", len(view.Shapes))
	}
}

func TestRoom_CursorFanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	aOut := make(chan protocol.ServerMessage, 4)
	bOut := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- Join{ClientID: "cA", UserID: "uA", Name: "user-uA", Outbox: aOut}
	recvMsg(t, aOut, 100*time.Millisecond)
	r.Inbox() <- JoinRoom{ClientID: "cB", UserID: "uB", Name: "user-uB", Outbox: bOut}
	recvMsg(t, bOut, 100*time.Millisecond)
	recvMsg(t, aOut, 100*time.Millisecond)

	r.Inbox() <- FromClient{ClientID: "cA", Msg: protocol.ClientMessage{
		Type:    protocol.MsgCursorPosition,
		Payload: &protocol.ClientPayload{X: 12, Y: 34},
	}}

	got := recvMsg(t, bOut, 100*time.Millisecond)
	if got.Type != protocol.EvtCursorPosition {
		t.Fatalf("want cursor event, got %q", got.Type)
	}
	if got.Data.ID != "uA" || got.Data.X != 12 || got.Data.Y != 34 {
		t.Fatalf("cursor data wrong: %+v", got.Data)
	}
}

func TestRoom_UnknownTypeErrorsToSenderOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	aOut := make(chan protocol.ServerMessage, 4)
	bOut := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- Join{ClientID: "cA", UserID: "uA", Name: "user-uA", Outbox: aOut}
	recvMsg(t, aOut, 100*time.Millisecond)
	r.Inbox() <- JoinRoom{ClientID: "cB", UserID: "uB", Name: "user-uB", Outbox: bOut}
	recvMsg(t, bOut, 100*time.Millisecond)
	recvMsg(t, aOut, 100*time.Millisecond)

	r.Inbox() <- FromClient{ClientID: "cA", Msg: protocol.ClientMessage{Type: "teleport-shape"}}

	got := recvMsg(t, aOut, 100*time.Millisecond)
	if got.Type != protocol.EvtError || got.Message == "" {
		t.Fatalf("sender must get an error event, got %+v", got)
	}
	recvNoMsg(t, bOut, 50*time.Millisecond)
}

func TestRoom_LeaveBroadcastsUserExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	aOut := make(chan protocol.ServerMessage, 4)
	bOut := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- Join{ClientID: "cA", UserID: "uA", Name: "user-uA", Outbox: aOut}
	recvMsg(t, aOut, 100*time.Millisecond)
	r.Inbox() <- JoinRoom{ClientID: "cB", UserID: "uB", Name: "user-uB", Outbox: bOut}
	recvMsg(t, bOut, 100*time.Millisecond)
	recvMsg(t, aOut, 100*time.Millisecond)

	r.Inbox() <- Leave{ClientID: "cB"}

	got := recvMsg(t, aOut, 100*time.Millisecond)
	if got.Type != protocol.EvtUserExit || got.Data.UserID != "uB" {
		t.Fatalf("user-exit wrong: %+v", got)
	}

	view := getState(t, r)
	if view.NumClients != 1 {
		t.Fatalf("want 1 member, got %d", view.NumClients)
	}
}

func TestRoom_LeaveClosesOutbox(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	out := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- Join{ClientID: "c1", UserID: "u1", Name: "user-u1", Outbox: out}
	recvMsg(t, out, 100*time.Millisecond)

	r.Inbox() <- Leave{ClientID: "c1"}

	// The writer goroutine draining this channel exits only on close, so
	// a leave must close it.
	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("unexpected message after leave")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("outbox not closed after leave")
	}
}

func TestRoom_NotifyLeaveAfterShutdownDoesNotBlock(t *testing.T) {
	r := NewRoom(context.Background(), "room-1", zap.NewNop())

	r.Inbox() <- Shutdown{}
	select {
	case <-r.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("room did not shut down")
	}

	// Fill the inbox so a bare send would block forever; the loop is
	// gone and nothing drains it.
	for i := 0; i < cap(r.inbox); i++ {
		select {
		case r.inbox <- Leave{ClientID: "filler"}:
		default:
		}
	}

	done := make(chan struct{})
	go func() {
		r.NotifyLeave("c1")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("NotifyLeave blocked on a shut-down room")
	}
}

func TestRoom_SlowClientDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, "room-1", zap.NewNop())

	aOut := make(chan protocol.ServerMessage, 4)
	// B's outbox has no buffer and nothing draining it.
	bOut := make(chan protocol.ServerMessage)
	r.Inbox() <- Join{ClientID: "cA", UserID: "uA", Name: "user-uA", Outbox: aOut}
	recvMsg(t, aOut, 100*time.Millisecond)
	r.Inbox() <- JoinRoom{ClientID: "cB", UserID: "uB", Name: "user-uB", Outbox: bOut}
	// The snapshot send already fails: B never drains, so it gets dropped.

	recvMsg(t, aOut, 100*time.Millisecond) // presence still reached A

	view := getState(t, r)
	if view.NumClients != 1 {
		t.Fatalf("slow client must be dropped, got %d members", view.NumClients)
	}
}

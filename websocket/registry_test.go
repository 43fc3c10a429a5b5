package websocket

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeConn struct {
	written  []Envelope
	writeErr error
	closed   bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, v.(Envelope))
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestTryDeliverOffline(t *testing.T) {
	reg := NewRegistry()
	if reg.TryDeliver(uuid.New(), "notification", nil) {
		t.Error("expected delivery to an offline user to report false")
	}
}

func TestTryDeliverOnline(t *testing.T) {
	reg := NewRegistry()
	userID := uuid.New()
	conn := &fakeConn{}
	reg.Register(userID, conn)

	if !reg.TryDeliver(userID, "notification", map[string]string{"type": "request"}) {
		t.Fatal("expected delivery to an online user to report true")
	}
	if len(conn.written) != 1 || conn.written[0].Event != "notification" {
		t.Errorf("unexpected frames written: %+v", conn.written)
	}
}

func TestRegisterOverwritesPreviousConnection(t *testing.T) {
	reg := NewRegistry()
	userID := uuid.New()
	old := &fakeConn{}
	replacement := &fakeConn{}

	reg.Register(userID, old)
	reg.Register(userID, replacement)
	reg.TryDeliver(userID, "ping", nil)

	if len(old.written) != 0 {
		t.Error("stale connection should not receive events")
	}
	if len(replacement.written) != 1 {
		t.Error("replacement connection should receive events")
	}
}

func TestUnregisterIgnoresStaleConnection(t *testing.T) {
	reg := NewRegistry()
	userID := uuid.New()
	old := &fakeConn{}
	replacement := &fakeConn{}

	reg.Register(userID, old)
	reg.Register(userID, replacement)
	reg.Unregister(userID, old)

	if !reg.Online(userID) {
		t.Error("unregistering a stale connection must not evict the live one")
	}

	reg.Unregister(userID, replacement)
	if reg.Online(userID) {
		t.Error("expected user offline after unregistering the live connection")
	}
}

func TestEmitToRoomReachesAllMembers(t *testing.T) {
	reg := NewRegistry()
	convID := uuid.New()
	alice, bob := uuid.New(), uuid.New()
	aliceConn, bobConn := &fakeConn{}, &fakeConn{}

	reg.Register(alice, aliceConn)
	reg.Register(bob, bobConn)
	reg.JoinRoom(convID, alice, aliceConn)
	reg.JoinRoom(convID, bob, bobConn)

	reg.EmitToRoom(convID, "user_typing", map[string]string{"userId": alice.String()})

	for name, conn := range map[string]*fakeConn{"alice": aliceConn, "bob": bobConn} {
		if len(conn.written) != 1 || conn.written[0].Event != "user_typing" {
			t.Errorf("%s did not receive the room event: %+v", name, conn.written)
		}
	}
}

func TestUnregisterLeavesRooms(t *testing.T) {
	reg := NewRegistry()
	convID := uuid.New()
	userID := uuid.New()
	conn := &fakeConn{}

	reg.Register(userID, conn)
	reg.JoinRoom(convID, userID, conn)
	reg.Unregister(userID, conn)

	reg.EmitToRoom(convID, "read_receipt", nil)
	if len(conn.written) != 0 {
		t.Error("unregistered connection should not receive room events")
	}
}

// overlapDetectingConn fails the test if two writes ever run at once: the
// real connection type panics on concurrent writers.
type overlapDetectingConn struct {
	writers    atomic.Int32
	overlapped atomic.Bool
	writes     atomic.Int32
}

func (c *overlapDetectingConn) WriteJSON(v interface{}) error {
	if c.writers.Add(1) > 1 {
		c.overlapped.Store(true)
	}
	time.Sleep(100 * time.Microsecond)
	c.writers.Add(-1)
	c.writes.Add(1)
	return nil
}

func (c *overlapDetectingConn) Close() error { return nil }

func TestConcurrentPushesAreSerialized(t *testing.T) {
	reg := NewRegistry()
	userID := uuid.New()
	convID := uuid.New()
	conn := &overlapDetectingConn{}

	reg.Register(userID, conn)
	reg.JoinRoom(convID, userID, conn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				reg.TryDeliver(userID, "notification", nil)
				reg.EmitToRoom(convID, "user_typing", nil)
			}
		}()
	}
	wg.Wait()

	if conn.overlapped.Load() {
		t.Error("registry allowed concurrent writes to a single connection")
	}
	if got := conn.writes.Load(); got != 8*20*2 {
		t.Errorf("expected %d writes, got %d", 8*20*2, got)
	}
}

func TestWriteFailureEvictsConnection(t *testing.T) {
	reg := NewRegistry()
	userID := uuid.New()
	conn := &fakeConn{writeErr: errors.New("broken pipe")}
	reg.Register(userID, conn)

	if reg.TryDeliver(userID, "notification", nil) {
		t.Error("expected delivery to report false on write failure")
	}
	if !conn.closed {
		t.Error("expected failing connection to be closed")
	}
	if reg.Online(userID) {
		t.Error("expected failing connection to be evicted")
	}
}

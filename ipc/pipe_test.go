package ipc

import (
	"io"
	"testing"

	"gocko/cssom/values"
	"gocko/paint"
)

func TestFramingIdempotence(t *testing.T) {
	a, b := NewMessagePipePair(nil)
	defer a.Close()
	defer b.Close()

	payloads := [][]byte{
		[]byte("first frame"),
		{},
		[]byte("third frame, after an empty one"),
	}

	done := make(chan error, 1)
	go func() {
		for _, p := range payloads {
			if err := a.Send(p); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	for i, want := range payloads {
		got, err := b.Receive()
		if err != nil {
			t.Fatalf("receive frame %d: %v", i, err)
		}
		if string(got) != string(want) {
			t.Errorf("frame %d = %q, want %q", i, got, want)
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("send goroutine: %v", err)
	}
}

func TestClosingOneEndFailsTheOtherCleanly(t *testing.T) {
	a, b := NewMessagePipePair(nil)

	sent := []byte("delivered before close")
	recvDone := make(chan []byte, 1)
	go func() {
		got, _ := b.Receive()
		recvDone <- got
	}()
	if err := a.Send(sent); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := <-recvDone; string(got) != string(sent) {
		t.Fatalf("pre-close frame = %q, want %q", got, sent)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := b.Receive(); err == nil {
		t.Error("expected the peer's Receive to fail after Close")
	} else if err != io.EOF && err != io.ErrClosedPipe {
		t.Logf("peer failed with %v (transport-specific, acceptable)", err)
	}

	if err := a.Send([]byte("x")); err != ErrClosed {
		t.Errorf("Send after Close = %v, want ErrClosed", err)
	}
}

func TestEachPipeGetsADistinctSessionID(t *testing.T) {
	a, b := NewMessagePipePair(nil)
	defer a.Close()
	defer b.Close()

	if a.SessionID() == "" || b.SessionID() == "" {
		t.Fatal("expected a non-empty session id for both ends")
	}
	if a.SessionID() == b.SessionID() {
		t.Error("expected distinct session ids for each end of the pair")
	}
}

func TestDisplayListOverPipe(t *testing.T) {
	a, b := NewMessagePipePair(nil)
	defer a.Close()
	defer b.Close()

	dl := &paint.DisplayList{Commands: []paint.PaintCommand{
		paint.FillRect{Rect: paint.Rect{X: 0, Y: 0, Width: 5, Height: 5}, Color: values.RGB(9, 9, 9)},
	}}

	done := make(chan error, 1)
	go func() { done <- a.SendDisplayList(dl) }()

	got, err := b.ReceiveDisplayList()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(got.Commands) != len(dl.Commands) {
		t.Fatalf("got %d commands, want %d", len(got.Commands), len(dl.Commands))
	}
}

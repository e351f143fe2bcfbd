package ipc

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gocko/paint"
)

// ErrClosed is returned by Send/Receive once the pipe has been closed,
// mirroring the teacher's is_open() guard.
var ErrClosed = errors.New("ipc: pipe closed")

// MessagePipe frames arbitrary payloads with a 4-byte big-endian length
// prefix (spec §6's "Transport framing") over any net.Conn. The
// teacher's MessagePipe wraps a raw socketpair fd; here conn is
// anything satisfying net.Conn, so the in-process pair below uses
// net.Pipe() and a real process boundary can use a unix socket or TCP
// connection without changing Send/Receive.
type MessagePipe struct {
	conn      net.Conn
	log       *zap.Logger
	sessionID string

	mu      sync.Mutex
	closed  bool
	frameNo uint64
}

// NewMessagePipe wraps an already-connected net.Conn. Each pipe is
// stamped with its own session id so a process juggling several pipes
// at once (multiple tabs, a render process talking to more than one
// peer) can tell their log lines apart.
func NewMessagePipe(conn net.Conn, log *zap.Logger) *MessagePipe {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessagePipe{conn: conn, log: log, sessionID: uuid.NewString()}
}

// SessionID identifies this pipe instance for logging/debugging; it has
// no meaning to the peer and is never sent over the wire.
func (p *MessagePipe) SessionID() string {
	return p.sessionID
}

// NewMessagePipePair returns two in-process-connected pipes, the Go
// analogue of the teacher's MessagePipe::create_pair() socketpair.
func NewMessagePipePair(log *zap.Logger) (*MessagePipe, *MessagePipe) {
	a, b := net.Pipe()
	return NewMessagePipe(a, log), NewMessagePipe(b, log)
}

func (p *MessagePipe) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed
}

// Send writes a 4-byte length prefix followed by data; a zero-length
// payload is permitted (spec §6).
func (p *MessagePipe) Send(data []byte) error {
	if !p.IsOpen() {
		return ErrClosed
	}
	p.mu.Lock()
	p.frameNo++
	frameNo := p.frameNo
	p.mu.Unlock()

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := p.conn.Write(prefix[:]); err != nil {
		return p.fail(err)
	}
	if len(data) > 0 {
		if _, err := p.conn.Write(data); err != nil {
			return p.fail(err)
		}
	}
	p.log.Sugar().Debugw("ipc frame sent", "session", p.sessionID, "frame", frameNo, "bytes", len(data))
	return nil
}

// Receive reads one length-prefixed frame, blocking until a full frame
// arrives or the pipe fails. io.EOF (clean close by the peer) is
// returned unwrapped so callers can distinguish a graceful close from a
// transport error.
func (p *MessagePipe) Receive() ([]byte, error) {
	if !p.IsOpen() {
		return nil, ErrClosed
	}
	var prefix [4]byte
	if _, err := io.ReadFull(p.conn, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, p.fail(err)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n == 0 {
		return []byte{}, nil
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(p.conn, payload); err != nil {
		return nil, p.fail(err)
	}
	return payload, nil
}

func (p *MessagePipe) fail(err error) error {
	p.log.Sugar().Debugw("ipc pipe transport error", "session", p.sessionID, "err", err)
	return err
}

// Close shuts the pipe down; any frames already fully received before
// Close are unaffected (spec §8: "closing one end causes the other to
// fail cleanly without loss of earlier frames").
func (p *MessagePipe) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	return p.conn.Close()
}

// SendDisplayList is the convenience path the render core uses to push
// a finished DisplayList across the pipe: encode, then frame.
func (p *MessagePipe) SendDisplayList(dl *paint.DisplayList) error {
	data, err := EncodeDisplayList(dl)
	if err != nil {
		return err
	}
	return p.Send(data)
}

// ReceiveDisplayList reverses SendDisplayList.
func (p *MessagePipe) ReceiveDisplayList() (*paint.DisplayList, error) {
	data, err := p.Receive()
	if err != nil {
		return nil, err
	}
	return DecodeDisplayList(data)
}

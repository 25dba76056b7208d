package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by a Transport used after Close, or whose peer has
// gone away.
var ErrClosed = errors.New("worker: transport closed")

// Transport carries Messages between the two sides. Send and Receive may be
// called concurrently with each other; each is used by one goroutine.
type Transport interface {
	Send(ctx context.Context, m Message) error
	Receive(ctx context.Context) (Message, error)
	Close() error
}

// pipeBuffer bounds the number of in-flight messages per direction.
const pipeBuffer = 16

// Pipe returns two connected in-process transports. Messages are deep
// copied on send, so neither side can observe the other's memory.
func Pipe() (Transport, Transport) {
	ab := make(chan Message, pipeBuffer)
	ba := make(chan Message, pipeBuffer)
	done := make(chan struct{})
	once := new(sync.Once)
	a := &pipeEnd{out: ab, in: ba, done: done, once: once}
	b := &pipeEnd{out: ba, in: ab, done: done, once: once}
	return a, b
}

type pipeEnd struct {
	out  chan<- Message
	in   <-chan Message
	done chan struct{}
	once *sync.Once
}

func (p *pipeEnd) Send(ctx context.Context, m Message) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.out <- m.Clone():
		return nil
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipeEnd) Receive(ctx context.Context) (Message, error) {
	select {
	case m := <-p.in:
		return m, nil
	case <-p.done:
		// Drain what was sent before the close.
		select {
		case m := <-p.in:
			return m, nil
		default:
			return Message{}, ErrClosed
		}
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Close closes both ends of the pipe.
func (p *pipeEnd) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

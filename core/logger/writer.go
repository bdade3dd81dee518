package logger

import (
	"bufio"
	"io"
	"sync"
)

// asyncWriter moves log lines off the calling goroutine. One background
// goroutine copies queued lines into a shared buffer over every sink and
// flushes whenever the queue runs dry.
type asyncWriter struct {
	queue   chan []byte
	flushes chan chan error
	done    chan struct{}

	// gate keeps Write from sending on a closed queue.
	gate   sync.RWMutex
	closed bool

	out *bufio.Writer

	mu  sync.Mutex
	err error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	sinks := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			sinks = append(sinks, w)
		}
	}
	w := &asyncWriter{
		queue:   make(chan []byte, 256),
		flushes: make(chan chan error),
		done:    make(chan struct{}),
		out:     bufio.NewWriterSize(io.MultiWriter(sinks...), bufSize),
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for {
		select {
		case line, ok := <-w.queue:
			if !ok {
				w.fail(w.out.Flush())
				return
			}
			if _, err := w.out.Write(line); err != nil {
				w.fail(err)
			}
			if len(w.queue) == 0 {
				w.fail(w.out.Flush())
			}
		case ack := <-w.flushes:
			// Drain whatever was queued before the request.
			for n := len(w.queue); n > 0; n-- {
				if line, ok := <-w.queue; ok {
					_, _ = w.out.Write(line)
				}
			}
			err := w.out.Flush()
			w.fail(err)
			ack <- err
		}
	}
}

// Write copies p and queues it. It blocks only when the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.firstErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	line := append([]byte(nil), p...)
	w.gate.RLock()
	defer w.gate.RUnlock()
	if w.closed {
		return io.ErrClosedPipe
	}
	w.queue <- line
	return nil
}

// Flush blocks until every line queued so far has reached the sinks.
func (w *asyncWriter) Flush() error {
	ack := make(chan error, 1)
	select {
	case w.flushes <- ack:
		return <-ack
	case <-w.done:
		return w.firstErr()
	}
}

// Close drains the queue and returns the first write error seen.
func (w *asyncWriter) Close() error {
	w.gate.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.gate.Unlock()
	<-w.done
	return w.firstErr()
}

func (w *asyncWriter) fail(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.mu.Unlock()
}

func (w *asyncWriter) firstErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

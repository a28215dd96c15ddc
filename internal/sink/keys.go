package sink

import "fmt"

// Key is a key press. Printable keys are their rune value; special keys use
// the constants below.
type Key int32

// Special keys. Control keys keep their ASCII codes.
const (
	KeyNone      Key = -1
	KeyUp        Key = -2
	KeyDown      Key = -3
	KeyLeft      Key = -4
	KeyRight     Key = -5
	KeyCtrlC     Key = 3
	KeyEnter     Key = 13
	KeyEscape    Key = 27
	KeyBackspace Key = 127
)

// Printable reports whether k is a character that can be typed into a cell.
func (k Key) Printable() bool {
	return k >= ' ' && k != KeyBackspace
}

// String returns a short name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyCtrlC:
		return "ctrl+c"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	case KeyBackspace:
		return "backspace"
	}
	if k.Printable() {
		return string(rune(k))
	}
	return fmt.Sprintf("key(%d)", int32(k))
}

const keyQueueSize = 64

// keyQueue buffers key presses between the producer (a poll goroutine or a
// test) and the frame loop.
type keyQueue struct {
	ch       chan Key
	done     chan struct{}
	realTime bool
}

func newKeyQueue() keyQueue {
	return keyQueue{
		ch:   make(chan Key, keyQueueSize),
		done: make(chan struct{}),
	}
}

// push enqueues k, dropping it if the queue is full.
func (q *keyQueue) push(k Key) bool {
	select {
	case q.ch <- k:
		return true
	default:
		return false
	}
}

func (q *keyQueue) get() Key {
	if q.realTime {
		select {
		case k := <-q.ch:
			return k
		default:
			return KeyNone
		}
	}
	select {
	case k := <-q.ch:
		return k
	case <-q.done:
		return KeyNone
	}
}

func (q *keyQueue) drain() int {
	n := 0
	for {
		select {
		case <-q.ch:
			n++
		default:
			return n
		}
	}
}

// close unblocks any GetKey waiting in blocking mode.
func (q *keyQueue) close() {
	select {
	case <-q.done:
	default:
		close(q.done)
	}
}

// SPDX-License-Identifier: MIT

package capture

import (
	"bufio"
	"io"
	"sync"
)

// stderrTail keeps the last N stderr lines of a capture process so an
// unexpected exit can be logged with its final output.
type stderrTail struct {
	mu    sync.Mutex
	lines []string
	head  int
	count int
}

func newStderrTail(capacity int) *stderrTail {
	if capacity < 1 {
		capacity = 32
	}
	return &stderrTail{lines: make([]string, capacity)}
}

// consume drains r line by line until EOF.
func (t *stderrTail) consume(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		t.mu.Lock()
		t.lines[t.head] = line
		t.head = (t.head + 1) % len(t.lines)
		if t.count < len(t.lines) {
			t.count++
		}
		t.mu.Unlock()
	}
}

// last returns up to n retained lines in chronological order.
func (t *stderrTail) last(n int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n > t.count {
		n = t.count
	}
	out := make([]string, 0, n)
	for i := t.count - n; i < t.count; i++ {
		idx := (t.head - t.count + i + 2*len(t.lines)) % len(t.lines)
		out = append(out, t.lines[idx])
	}
	return out
}

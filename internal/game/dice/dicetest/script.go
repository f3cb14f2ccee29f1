// Package dicetest provides deterministic dice.Source fakes for tests.
package dicetest

import (
	"fmt"
	"sync"
)

// Script returns queued values in order, reducing each modulo the requested
// bound so a scripted value can never escape [0, n). Once the queue is empty
// it returns Fallback (also reduced).
type Script struct {
	mu       sync.Mutex
	values   []int
	Fallback int
	// Calls records the bound of every Intn call, in order.
	Calls []int
}

// NewScript creates a Script that yields values in order, then 0 forever.
func NewScript(values ...int) *Script {
	return &Script{values: values}
}

// Push appends values to the queue.
func (s *Script) Push(values ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, values...)
}

// Remaining reports how many scripted values have not been consumed.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// Intn implements dice.Source.
func (s *Script) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("dicetest: Intn called with n=%d", n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, n)
	v := s.Fallback
	if len(s.values) > 0 {
		v = s.values[0]
		s.values = s.values[1:]
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Fixed is a Source that always returns the same value reduced modulo n.
type Fixed int

// Intn implements dice.Source.
func (f Fixed) Intn(n int) int {
	v := int(f) % n
	if v < 0 {
		v += n
	}
	return v
}

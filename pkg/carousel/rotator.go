// Package carousel implements the slide rotation state shared by carousel
// banners and testimonial rotators.
//
// A [Rotator] is a modular counter over N slides: Next and Prev wrap around,
// GoTo jumps, and there is no terminal state. A [Ticker] drives a Rotator on a
// fixed interval and owns the only timer of a mounted carousel; it never fires
// after Stop, after its context ends, or once the slide count drops to one.
package carousel

import "sync"

// Rotator tracks the current slide of an N-slide carousel. It is safe for
// concurrent use.
type Rotator struct {
	mu  sync.Mutex
	n   int
	idx int
}

// NewRotator returns a rotator over n slides positioned at slide 0.
func NewRotator(n int) *Rotator {
	if n < 0 {
		n = 0
	}
	return &Rotator{n: n}
}

// Index returns the current slide.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idx
}

// Len returns the slide count.
func (r *Rotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Next advances to (i+1) mod N and returns the new index.
func (r *Rotator) Next() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.n > 0 {
		r.idx = (r.idx + 1) % r.n
	}
	return r.idx
}

// Prev moves to (i-1+N) mod N and returns the new index.
func (r *Rotator) Prev() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.n > 0 {
		r.idx = (r.idx - 1 + r.n) % r.n
	}
	return r.idx
}

// GoTo jumps to slide i. Out-of-range indices leave the rotator unchanged and
// return false.
func (r *Rotator) GoTo(i int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= r.n {
		return false
	}
	r.idx = i
	return true
}

// Resize changes the slide count. The current slide is kept when it still
// exists, otherwise the rotator restarts at 0.
func (r *Rotator) Resize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 {
		n = 0
	}
	r.n = n
	if r.idx >= n {
		r.idx = 0
	}
}

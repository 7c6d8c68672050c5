package swapz

import "sync"

// errorRing retains the most recent errors, oldest first.
type errorRing struct {
	mu   sync.Mutex
	max  int
	errs []error
}

// newErrorRing creates an error ring with the given capacity.
// A capacity of zero or less disables history; the nil ring is a no-op.
func newErrorRing(max int) *errorRing {
	if max <= 0 {
		return nil
	}
	return &errorRing{max: max}
}

// push records an error, dropping the oldest once capacity is reached.
func (r *errorRing) push(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errs = append(r.errs, err)
	if len(r.errs) > r.max {
		r.errs = append(r.errs[:0], r.errs[len(r.errs)-r.max:]...)
	}
}

// clear discards all recorded errors.
func (r *errorRing) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errs = r.errs[:0]
}

// all returns a copy of the recorded errors, oldest first.
func (r *errorRing) all() []error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.errs) == 0 {
		return nil
	}
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

package observer

import (
	"sync"

	"golang.org/x/exp/slices"
)

// Observer is the capability for receiving notifications with a payload
// of type T. A concrete observer embeds Base[T] and implements Update:
//
//	type imageConsumer struct {
//		observer.Base[image.Image]
//	}
//
//	func (c *imageConsumer) Update(img image.Image) { ... }
//
// The unexported base method keeps the attach bookkeeping reachable only
// from this package, so the registry cannot get out of sync with the
// observer's own subject list.
type Observer[T any] interface {
	// Update is invoked by Subject.Notify with the broadcast payload.
	Update(args T)

	base() *Base[T]
}

// Base holds the subjects an observer is currently attached to, so the
// observer can sever every edge when it goes away. The zero value is
// ready to use; embed it by value and use the observer through a
// pointer.
//
// A Base identifies one observer. Do not share a Base between two
// observers, the registry dedupes on its address.
type Base[T any] struct {
	mu       sync.Mutex
	subjects []*Subject[T]
}

func (b *Base[T]) base() *Base[T] { return b }

// SubjectCount returns the number of subjects this observer is attached
// to.
func (b *Base[T]) SubjectCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subjects)
}

// Close detaches the observer from every subject it is still attached
// to, then clears the bookkeeping. The subjects are not called back into
// this observer while it is tearing down. Call Close before discarding
// an observer; closing twice is a no-op the second time, and edges
// already severed from the subject side are tolerated.
func (b *Base[T]) Close() {
	b.mu.Lock()
	subjects := b.subjects
	b.subjects = nil
	b.mu.Unlock()

	for _, s := range subjects {
		// the subject may have detached us concurrently, not attached
		// is fine here
		_ = s.detachNoCallback(b)
	}
}

// attachedTo records the subject side of a new edge. Called by
// Subject.Attach with the subject lock already released.
func (b *Base[T]) attachedTo(s *Subject[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if slices.Contains(b.subjects, s) {
		return
	}
	b.subjects = append(b.subjects, s)
}

// detachedFrom drops the subject from the bookkeeping. This is the
// disconnect callback path: Subject.Detach and Subject.DetachAll use it,
// Base.Close does not.
func (b *Base[T]) detachedFrom(s *Subject[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := slices.Index(b.subjects, s); i >= 0 {
		b.subjects = slices.Delete(b.subjects, i, i+1)
	}
}

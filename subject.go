package observer

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/reacharm/observer/xerror"
	"github.com/reacharm/observer/xmetrics"
)

// ErrNotAttached is returned by Detach when the observer is not in the
// registry. This is a caller bug, not a transient condition.
var ErrNotAttached = xerror.New(xerror.InvalidArgument, "observer is not attached to this subject")

// A Subject broadcasts payloads of type T to its attached observers. The
// observer registry keeps insertion order and rejects duplicates; every
// registry access is serialized by a per-subject mutex.
//
// A subject does not own its observers and observers do not own their
// subjects. Whichever side is discarded first calls its Close, which
// severs the edges so the surviving side never holds a stale reference.
//
// A Subject must not be copied by value (go vet flags the lock copy);
// use Clone to derive a subject with the same name and no observers.
type Subject[T any] struct {
	name string

	mu        sync.Mutex
	observers []Observer[T]
}

// NewSubject creates an anonymous subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

func newNamedSubject[T any](name string) *Subject[T] {
	return &Subject[T]{name: name}
}

// Name returns the registry name, empty for anonymous subjects.
func (s *Subject[T]) Name() string {
	return s.name
}

// Attach adds the observer to the registry and records the back edge in
// the observer. Attaching an observer that is already attached is a
// no-op, the registry never holds the same observer twice.
func (s *Subject[T]) Attach(observer Observer[T]) {
	b := observer.base()

	s.mu.Lock()
	if s.indexOfLocked(b) >= 0 {
		s.mu.Unlock()
		log.Debug("attach skipped, observer already attached", zap.String("subject", s.name))
		return
	}
	s.observers = append(s.observers, observer)
	count := len(s.observers)
	s.mu.Unlock()

	b.attachedTo(s)

	xmetrics.AddAttach(s.name, count)
	log.Debug("attach observer", zap.String("subject", s.name), zap.Int("observers", count))
}

// Detach removes the observer from the registry and informs it that the
// edge is gone so its own bookkeeping stays consistent. Detaching an
// observer that is not attached fails with an InvalidArgument xerror
// wrapping ErrNotAttached.
func (s *Subject[T]) Detach(observer Observer[T]) error {
	b := observer.base()

	s.mu.Lock()
	i := s.indexOfLocked(b)
	if i < 0 {
		s.mu.Unlock()
		return xerror.Wrapf(ErrNotAttached, xerror.InvalidArgument, "detach from subject %q", s.name)
	}
	s.observers = slices.Delete(s.observers, i, i+1)
	count := len(s.observers)
	s.mu.Unlock()

	b.detachedFrom(s)

	xmetrics.AddDetach(s.name, 1, count)
	log.Debug("detach observer", zap.String("subject", s.name), zap.Int("observers", count))
	return nil
}

// detachNoCallback removes the observer identified by b from the
// registry without calling back into it. Only Base.Close uses this path,
// while the observer is tearing down its own bookkeeping; re-entering it
// here would hand a half-dismantled observer back to itself.
func (s *Subject[T]) detachNoCallback(b *Base[T]) error {
	s.mu.Lock()
	i := s.indexOfLocked(b)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotAttached
	}
	s.observers = slices.Delete(s.observers, i, i+1)
	count := len(s.observers)
	s.mu.Unlock()

	xmetrics.AddDetach(s.name, 1, count)
	return nil
}

// DetachAll empties the registry and informs every removed observer.
// It never fails.
func (s *Subject[T]) DetachAll() {
	s.mu.Lock()
	detached := s.observers
	s.observers = nil
	s.mu.Unlock()

	for _, o := range detached {
		o.base().detachedFrom(s)
	}

	if len(detached) > 0 {
		xmetrics.AddDetach(s.name, len(detached), 0)
		log.Debug("detach all observers", zap.String("subject", s.name), zap.Int("detached", len(detached)))
	}
}

// Close severs every edge this subject holds. Call it before discarding
// a subject that may still have observers attached: their bookkeeping is
// updated, so their own Close will not come back to this subject.
// Closing twice is a no-op the second time.
func (s *Subject[T]) Close() {
	s.DetachAll()
}

// Notify broadcasts args to every attached observer, in attach order,
// each exactly once. The registry is snapshotted under the lock and the
// handlers run after it is released, so a handler may call Attach or
// Detach on this same subject without deadlocking. The flip side is
// at-least-attempted delivery: an observer detached concurrently with an
// in-flight Notify may still receive that pass's payload.
//
// A panicking handler does not stop the fan-out. The panic is recovered,
// logged and counted, and delivery continues with the next observer.
func (s *Subject[T]) Notify(args T) {
	s.mu.Lock()
	snapshot := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, o := range snapshot {
		s.update(o, args)
	}

	xmetrics.ConsumeNotify(s.name, len(snapshot))
}

func (s *Subject[T]) update(o Observer[T], args T) {
	defer func() {
		if r := recover(); r != nil {
			xmetrics.AddUpdatePanic()
			log.Error("observer update panicked", zap.String("subject", s.name), zap.Any("panic", r))
		}
	}()

	o.Update(args)
}

// ObserverCount returns the number of currently attached observers.
func (s *Subject[T]) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// Clone returns a subject with the same name and an empty registry.
// Observer edges are never copied: the observers' back references point
// at the original, and carrying them over would leave both sides
// inconsistent.
func (s *Subject[T]) Clone() *Subject[T] {
	return &Subject[T]{name: s.name}
}

func (s *Subject[T]) indexOfLocked(b *Base[T]) int {
	return slices.IndexFunc(s.observers, func(o Observer[T]) bool {
		return o.base() == b
	})
}

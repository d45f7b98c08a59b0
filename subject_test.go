package observer

import (
	"errors"
	"io"
	"sync"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/reacharm/observer/xerror"
)

func init() {
	log.SetOutput(io.Discard)
}

// recorder is the hand-written test double: a real observer that keeps
// what it received.
type recorder struct {
	Base[int]

	mu       sync.Mutex
	received []int
}

func (r *recorder) Update(args int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, args)
}

func (r *recorder) Received() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.received...)
}

func TestAttachIdempotent(t *testing.T) {
	s := NewSubject[int]()
	o := &recorder{}

	s.Attach(o)
	s.Attach(o)

	assert.Equal(t, 1, s.ObserverCount())
	assert.Equal(t, 1, o.SubjectCount())

	s.Notify(7)
	assert.Equal(t, []int{7}, o.Received())
}

func TestDetach(t *testing.T) {
	s := NewSubject[int]()
	o1 := &recorder{}
	o2 := &recorder{}
	s.Attach(o1)
	s.Attach(o2)

	assert.NoError(t, s.Detach(o1))
	assert.Equal(t, 1, s.ObserverCount())
	assert.Equal(t, 0, o1.SubjectCount())

	s.Notify(42)
	assert.Empty(t, o1.Received())
	assert.Equal(t, []int{42}, o2.Received())
}

func TestDetachNotAttached(t *testing.T) {
	s := NewSubject[int]()
	o := &recorder{}

	err := s.Detach(o)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotAttached))

	errType, ok := xerror.Category(err)
	assert.True(t, ok)
	assert.Equal(t, xerror.InvalidArgument, errType)

	// detaching twice is the same caller bug
	s.Attach(o)
	assert.NoError(t, s.Detach(o))
	assert.True(t, errors.Is(s.Detach(o), ErrNotAttached))
}

func TestNotifyOrdering(t *testing.T) {
	type call struct {
		id   string
		args int
	}
	var (
		mu    sync.Mutex
		calls []call
	)

	s := NewSubject[int]()
	for _, id := range []string{"o1", "o2", "o3"} {
		id := id
		s.Attach(&funcObserver[int]{fn: func(args int) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, call{id: id, args: args})
		}})
	}

	s.Notify(9)

	assert.Equal(t, []call{{"o1", 9}, {"o2", 9}, {"o3", 9}}, calls)
}

func TestDetachAll(t *testing.T) {
	s := NewSubject[int]()
	o1 := &recorder{}
	o2 := &recorder{}
	s.Attach(o1)
	s.Attach(o2)

	s.DetachAll()
	assert.Equal(t, 0, s.ObserverCount())
	assert.Equal(t, 0, o1.SubjectCount())
	assert.Equal(t, 0, o2.SubjectCount())

	s.Notify(1)
	assert.Empty(t, o1.Received())
	assert.Empty(t, o2.Received())

	// DetachAll on an empty registry never fails
	s.DetachAll()
}

func TestCloneDoesNotCopyEdges(t *testing.T) {
	s := newNamedSubject[int]("orders")
	o1 := &recorder{}
	o2 := &recorder{}
	s.Attach(o1)
	s.Attach(o2)

	clone := s.Clone()
	assert.Equal(t, 0, clone.ObserverCount())
	assert.Equal(t, "orders", clone.Name())

	// the original keeps its registry and the observers still track only
	// the original
	assert.Equal(t, 2, s.ObserverCount())
	assert.Equal(t, 1, o1.SubjectCount())

	clone.Notify(5)
	assert.Empty(t, o1.Received())
}

func TestReattachCreatesNewEdge(t *testing.T) {
	s := NewSubject[int]()
	o := &recorder{}

	s.Attach(o)
	assert.NoError(t, s.Detach(o))
	s.Attach(o)

	assert.Equal(t, 1, s.ObserverCount())
	assert.Equal(t, 1, o.SubjectCount())

	s.Notify(3)
	assert.Equal(t, []int{3}, o.Received())
}

func TestNotifyHandlerPanic(t *testing.T) {
	s := NewSubject[int]()
	before := &recorder{}
	after := &recorder{}

	s.Attach(before)
	s.Attach(&funcObserver[int]{fn: func(int) { panic("broken observer") }})
	s.Attach(after)

	assert.NotPanics(t, func() { s.Notify(11) })

	// delivery continues past the panicking observer
	assert.Equal(t, []int{11}, before.Received())
	assert.Equal(t, []int{11}, after.Received())
	assert.Equal(t, 3, s.ObserverCount())
}

func TestObserverSelfDetachDuringNotify(t *testing.T) {
	s := NewSubject[int]()
	o1 := &recorder{}
	o3 := &recorder{}

	o2 := &funcObserver[int]{}
	o2.fn = func(int) {
		// reentrant call on the same subject must not deadlock
		assert.NoError(t, s.Detach(o2))
	}

	s.Attach(o1)
	s.Attach(o2)
	s.Attach(o3)

	s.Notify(1)

	assert.Equal(t, 2, s.ObserverCount())
	assert.Equal(t, []int{1}, o1.Received())
	assert.Equal(t, []int{1}, o3.Received())

	s.Notify(2)
	assert.Equal(t, []int{1, 2}, o1.Received())
	assert.Equal(t, []int{1, 2}, o3.Received())
}

func TestAttachDuringNotify(t *testing.T) {
	s := NewSubject[int]()
	late := &recorder{}

	first := &funcObserver[int]{}
	first.fn = func(int) {
		s.Attach(late)
	}
	s.Attach(first)

	s.Notify(1)
	// the snapshot was taken before the attach, late joins next pass
	assert.Empty(t, late.Received())
	assert.Equal(t, 2, s.ObserverCount())

	s.Notify(2)
	assert.Equal(t, []int{2}, late.Received())
}

func TestConcurrentAttachDetachNotify(t *testing.T) {
	const observerNum = 32

	s := NewSubject[int]()
	var wg sync.WaitGroup

	for i := 0; i < observerNum; i++ {
		o := &recorder{}
		detach := i%2 == 0
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Attach(o)
			if detach {
				assert.NoError(t, s.Detach(o))
			}
		}()
	}

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Notify(j)
			}
		}()
	}

	wg.Wait()

	// net attach minus detach
	assert.Equal(t, observerNum/2, s.ObserverCount())
}

func TestConcurrentObserverClose(t *testing.T) {
	const observerNum = 16

	s := NewSubject[int]()
	observers := make([]*recorder, observerNum)
	for i := range observers {
		observers[i] = &recorder{}
		s.Attach(observers[i])
	}

	var wg sync.WaitGroup
	for _, o := range observers {
		o := o
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Close()
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			s.Notify(j)
		}
	}()

	wg.Wait()

	assert.Equal(t, 0, s.ObserverCount())
	for _, o := range observers {
		assert.Equal(t, 0, o.SubjectCount())
	}
}

// funcObserver adapts a closure into an observer.
type funcObserver[T any] struct {
	Base[T]
	fn func(T)
}

func (f *funcObserver[T]) Update(args T) {
	if f.fn != nil {
		f.fn(args)
	}
}

package observer

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/btree"

	"github.com/reacharm/observer/xerror"
)

const (
	degree = 128
)

// Registry addresses subjects by name, so producers and consumers can
// rendezvous on a broadcast channel without handing the *Subject pointer
// around. Registry is thread safety.
type Registry[T any] struct {
	lock     sync.RWMutex
	subjects *btree.Map[string, *Subject[T]]
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		subjects: btree.NewMap[string, *Subject[T]](degree),
	}
}

// GetOrCreate returns the subject registered under name, creating it
// first if needed.
func (r *Registry[T]) GetOrCreate(name string) *Subject[T] {
	r.lock.Lock()
	defer r.lock.Unlock()

	if s, ok := r.subjects.Get(name); ok {
		return s
	}

	s := newNamedSubject[T](name)
	r.subjects.Set(name, s)
	log.Debugf("register subject: %s", name)
	return s
}

// Get returns the subject registered under name.
func (r *Registry[T]) Get(name string) (*Subject[T], bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.subjects.Get(name)
}

// Remove closes the named subject and drops it from the registry, so
// its observers end up detached.
func (r *Registry[T]) Remove(name string) error {
	r.lock.Lock()
	s, ok := r.subjects.Get(name)
	if !ok {
		r.lock.Unlock()
		return xerror.Errorf(xerror.Normal, "subject not exist: %s", name)
	}
	r.subjects.Delete(name)
	r.lock.Unlock()

	s.Close()
	log.Debugf("remove subject: %s", name)
	return nil
}

// Names returns the registered names in lexical order.
func (r *Registry[T]) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.subjects.Keys()
}

// Len returns the number of registered subjects.
func (r *Registry[T]) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.subjects.Len()
}

// CloseAll closes every registered subject and empties the registry.
func (r *Registry[T]) CloseAll() {
	r.lock.Lock()
	subjects := r.subjects.Values()
	r.subjects = btree.NewMap[string, *Subject[T]](degree)
	r.lock.Unlock()

	for _, s := range subjects {
		s.Close()
	}
}

package selection

// Registry maps buffers to their selection stores. Stores are created on
// first mutation and dropped by Prune once they hold nothing.
type Registry[K comparable] struct {
	stores map[K]*Store
}

func NewRegistry[K comparable]() *Registry[K] {
	return &Registry[K]{stores: make(map[K]*Store)}
}

// Lookup returns the store of key without creating one.
func (r *Registry[K]) Lookup(key K) (*Store, bool) {
	st, ok := r.stores[key]
	return st, ok
}

// Store returns the store of key, creating it if needed.
func (r *Registry[K]) Store(key K) *Store {
	st, ok := r.stores[key]
	if !ok {
		st = &Store{}
		r.stores[key] = st
	}
	return st
}

// Set returns the current selections of key; nil when there are none.
func (r *Registry[K]) Set(key K) *Set {
	if st, ok := r.stores[key]; ok {
		return st.Set()
	}
	return nil
}

// Prune drops the store of key once it has neither selections nor a
// snapshot to restore.
func (r *Registry[K]) Prune(key K) {
	if st, ok := r.stores[key]; ok && st.idle() && !st.hidden {
		delete(r.stores, key)
	}
}

// Remove drops the store of key unconditionally, e.g. when its buffer is
// closed.
func (r *Registry[K]) Remove(key K) {
	delete(r.stores, key)
}

func (r *Registry[K]) Len() int {
	return len(r.stores)
}

package delivery

import "slices"

type observer[T any] struct {
	id int
	fn func(T)
}

// observers is an ordered subscriber list. Not safe for concurrent use.
type observers[T any] struct {
	seq  int
	list []observer[T]
}

func (o *observers[T]) add(fn func(T)) (remove func()) {
	o.seq++
	id := o.seq
	o.list = append(o.list, observer[T]{id: id, fn: fn})
	return func() {
		o.list = slices.DeleteFunc(o.list, func(x observer[T]) bool { return x.id == id })
	}
}

func (o *observers[T]) emit(v T) {
	for _, x := range slices.Clone(o.list) {
		x.fn(v)
	}
}

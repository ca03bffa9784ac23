package chromedevtools

import "sync/atomic"

// ObjectData is the per-parsed-value state: the raw JSON value, the
// write-once eager field array, the atomically-published lazy-cache slot
// array, a back-reference to the handler that produced it, and the
// materialized accessor view (spec §3 "ObjectData").
type ObjectData struct {
	raw     any
	fields  []any // size N; written once during construction, before publication
	lazy    []atomic.Pointer[lazySlot]
	handler *TypeHandler
	v       View
}

func newObjectData(raw any, h *TypeHandler) *ObjectData {
	o := &ObjectData{
		raw:     raw,
		fields:  make([]any, h.fieldArraySize),
		lazy:    make([]atomic.Pointer[lazySlot], h.lazySlotCount),
		handler: h,
	}
	o.v = View{data: o}
	return o
}

// view returns the View over o. v is set once in newObjectData, before o is
// published to any other goroutine, so concurrent accessor calls (spec §5)
// only ever read it.
func (o *ObjectData) view() View {
	return o.v
}

// RawValue returns the underlying raw JSON value this object was parsed
// from (spec §4.6 base accessor).
func (o *ObjectData) RawValue() any { return o.raw }

// rawObject returns the raw value as a JSON object, or (nil, false) when it
// is not one. Accessors that require object backing (spec §4.6) use this
// to fail clearly instead of panicking; the only way raw is a non-object is
// manual-subtyping mode (spec §4.3 step 1's exception).
func (o *ObjectData) rawObject() (map[string]any, bool) {
	m, ok := o.raw.(map[string]any)
	return m, ok
}

func (o *ObjectData) getLazySlot(i int) (*lazySlot, bool) {
	s := o.lazy[i].Load()
	return s, s != nil
}

// publishLazySlot installs s at index i if nothing has been published yet,
// then returns whichever slot actually ended up published (the first
// writer wins per spec §5; parser side effects must be pure/idempotent).
func (o *ObjectData) publishLazySlot(i int, s *lazySlot) *lazySlot {
	if o.lazy[i].CompareAndSwap(nil, s) {
		return s
	}
	return o.lazy[i].Load()
}

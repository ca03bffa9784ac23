package chromedevtools

// View is the immutable, typed accessor surface produced by a parse: one
// View wraps exactly one ObjectData and routes every named accessor call to
// the pre-built handler compiled for it (spec §4.6 "Accessor dispatch").
// The zero View is invalid; Views are only produced by a successful parse.
type View struct {
	data *ObjectData
}

// SchemaID reports which schema this view was parsed as.
func (v View) SchemaID() SchemaID {
	if v.data == nil {
		return ""
	}
	return v.data.handler.id
}

// RawValue returns the underlying raw JSON value (spec §4.6 base accessor).
func (v View) RawValue() any {
	if v.data == nil {
		return nil
	}
	return v.data.RawValue()
}

// Get dispatches a named accessor call. It is the dynamic form used by
// generated or reflective callers; typed call sites should prefer Int/
// Bool/Float32/String/List/Sub below, which call Get and assert the result.
//
// An error returned here is a ParseIssues with CodeUnknownKey when name is
// neither an accessor of the schema nor a base accessor (CodeUnknownSchema
// on the zero View) or, for lazy accessors and manual casts, a
// *LazyAccessError surfacing a parse failure discovered only on first
// access (spec §7).
func (v View) Get(name string) (any, error) {
	if v.data == nil {
		return nil, NewParseIssue("", name, CodeUnknownSchema)
	}
	h, ok := v.data.handler.accessors[name]
	if !ok {
		h, ok = baseAccessors[name]
	}
	if !ok {
		return nil, NewParseIssue(string(v.data.handler.id), name, CodeUnknownKey)
	}
	return h.get(v.data)
}

// MustGet panics on error; meant for accessors known by construction to be
// eager (and thus infallible once the owning object has parsed).
func (v View) MustGet(name string) any {
	val, err := v.Get(name)
	if err != nil {
		panic(err)
	}
	return val
}

// Int reads an accessor expected to hold an int64.
func (v View) Int(name string) (int64, error) {
	val, err := v.Get(name)
	if err != nil {
		return 0, err
	}
	n, _ := val.(int64)
	return n, nil
}

// Bool reads an accessor expected to hold a bool.
func (v View) Bool(name string) (bool, error) {
	val, err := v.Get(name)
	if err != nil {
		return false, err
	}
	b, _ := val.(bool)
	return b, nil
}

// Float32 reads an accessor expected to hold a float32.
func (v View) Float32(name string) (float32, error) {
	val, err := v.Get(name)
	if err != nil {
		return 0, err
	}
	f, _ := val.(float32)
	return f, nil
}

// String reads an accessor expected to hold a string.
func (v View) String(name string) (string, error) {
	val, err := v.Get(name)
	if err != nil {
		return "", err
	}
	s, _ := val.(string)
	return s, nil
}

// List reads an accessor expected to hold a parsed array.
func (v View) List(name string) (List, error) {
	val, err := v.Get(name)
	if err != nil {
		return nil, err
	}
	l, _ := val.(List)
	return l, nil
}

// Sub reads an accessor expected to hold a nested schema value (a field of
// KindRef, an automatic subtype case, or a manual reinterpretation cast).
// It returns the zero View (ok == false) when the accessor is structurally
// absent — a null/optional ref field, or an automatic subtype case that did
// not match — as opposed to an error, which indicates the access itself
// failed.
func (v View) Sub(name string) (sub View, ok bool, err error) {
	val, err := v.Get(name)
	if err != nil {
		return View{}, false, err
	}
	if val == nil {
		return View{}, false, nil
	}
	sub, ok = val.(View)
	return sub, ok, nil
}

// Matched reads an automatic-subtyping default-case accessor: it reports
// whether dispatch fell through to that default case. Use Sub instead for
// accessors naming an actual candidate subtype.
func (v View) Matched(name string) (bool, error) {
	val, err := v.Get(name)
	if err != nil {
		return false, err
	}
	return val != nil, nil
}

// Equals reports whether two views wrap the same parsed object (spec §4.6
// base accessor "Equals"). Comparing ObjectData identity, rather than the
// raw value itself, sidesteps the panic that == would raise when raw's
// dynamic type is an uncomparable kind such as map[string]any.
func (v View) Equals(other View) bool {
	return v.data == other.data
}

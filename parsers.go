package chromedevtools

import "fmt"

// quickParser is a value parser that needs no enclosing-object context: it
// consumes a raw JSON value and produces a finished value (spec §4.1).
type quickParser interface {
	parseQuick(raw any) (any, error)
}

// valueParser is the general (possibly "slow") value parser: it may need
// the parent ObjectData (for subtyping, where the subtype shares the
// parent's raw JSON) and may defer finishing via finish. Every quickParser
// also satisfies valueParser through quickAsValueParser.
type valueParser interface {
	// asQuick returns the quick form of this parser, or nil if it is
	// slow-only.
	asQuick() quickParser
	// parse consumes raw (and optionally the enclosing parent ObjectData)
	// and produces the stored (unfinished) representation.
	parse(raw any, parent *ObjectData) (any, error)
	// finish converts a stored value into its user-visible form. Parsers
	// whose stored and user-visible forms are identical return stored
	// unchanged.
	finish(stored any) (any, error)
	// isSchemaRef reports whether this parser delegates to a nested schema
	// handler (used by the subtype-wiring and closed-name-set passes).
	isSchemaRef() bool
	// describesRef returns the target ref when isSchemaRef() is true.
	describesRef() *handlerRef
}

// --- quick-only parsers ---

type quickAsValueParser struct{ q quickParser }

func (w quickAsValueParser) asQuick() quickParser { return w.q }
func (w quickAsValueParser) parse(raw any, _ *ObjectData) (any, error) {
	return w.q.parseQuick(raw)
}
func (quickAsValueParser) finish(stored any) (any, error) { return stored, nil }
func (quickAsValueParser) isSchemaRef() bool               { return false }
func (quickAsValueParser) describesRef() *handlerRef       { return nil }

func asValueParser(q quickParser) valueParser { return quickAsValueParser{q: q} }

type intParser struct{ nullable bool }

func (p intParser) parseQuick(raw any) (any, error) {
	if raw == nil {
		if p.nullable {
			return nil, nil
		}
		return nil, typeMismatch("int64")
	}
	switch n := raw.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return nil, typeMismatch("int64")
	}
}

type boolParser struct{ nullable bool }

func (p boolParser) parseQuick(raw any) (any, error) {
	if raw == nil {
		if p.nullable {
			return nil, nil
		}
		return nil, typeMismatch("bool")
	}
	b, ok := raw.(bool)
	if !ok {
		return nil, typeMismatch("bool")
	}
	return b, nil
}

type float32Parser struct{ nullable bool }

func (p float32Parser) parseQuick(raw any) (any, error) {
	if raw == nil {
		if p.nullable {
			return nil, nil
		}
		return nil, typeMismatch("float32")
	}
	switch n := raw.(type) {
	case float64:
		return float32(n), nil
	case float32:
		return n, nil
	default:
		return nil, typeMismatch("float32")
	}
}

type stringParser struct{ nullable bool }

func (p stringParser) parseQuick(raw any) (any, error) {
	if raw == nil {
		if p.nullable {
			return nil, nil
		}
		return nil, typeMismatch("string")
	}
	s, ok := raw.(string)
	if !ok {
		return nil, typeMismatch("string")
	}
	return s, nil
}

// rawObjectParser accepts any non-null JSON value unchanged; null is
// accepted only when the parser is nullable.
type rawObjectParser struct{ nullable bool }

func (p rawObjectParser) parseQuick(raw any) (any, error) {
	if raw == nil && !p.nullable {
		return nil, typeMismatch("non-null value")
	}
	return raw, nil
}

// jsonObjectParser requires (and passes through) a JSON object.
type jsonObjectParser struct{ nullable bool }

func (p jsonObjectParser) parseQuick(raw any) (any, error) {
	if raw == nil {
		if p.nullable {
			return nil, nil
		}
		return nil, typeMismatch("object")
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, typeMismatch("object")
	}
	return m, nil
}

// voidParser consumes anything and yields "no value"; used as the
// default-case placeholder in subtype dispatch.
type voidParser struct{}

func (voidParser) parseQuick(any) (any, error) { return nil, nil }

type enumParser struct {
	names    map[string]struct{}
	nullable bool
}

func newEnumParser(names []string, nullable bool) enumParser {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return enumParser{names: set, nullable: nullable}
}

func (p enumParser) parseQuick(raw any) (any, error) {
	if raw == nil {
		if p.nullable {
			return nil, nil
		}
		return nil, typeMismatch("enum string")
	}
	s, ok := raw.(string)
	if !ok {
		return nil, typeMismatch("enum string")
	}
	if _, known := p.names[s]; !known {
		return nil, NewParseIssue("", "", CodeUnknownEnumName)
	}
	return s, nil
}

func typeMismatch(expected string) error {
	return NewParseIssue("", "", CodeInvalidType).withDetail(fmt.Sprintf("expected %s", expected))
}

// withDetail annotates the first issue's Message with extra detail; small
// convenience used by the scalar parsers above, which have no schema/field
// context of their own (that is added by the caller via Wrap).
func (iss ParseIssues) withDetail(detail string) ParseIssues {
	if len(iss) == 0 {
		return iss
	}
	out := append(ParseIssues(nil), iss...)
	out[0].Message = out[0].Message + ": " + detail
	return out
}

// --- slow parsers ---

// listParser wraps a component parser; see ValueType.LazyElems for the
// eager/lazy element choice.
type listParser struct {
	elem     valueParser
	nullable bool
	lazy     bool
}

func (listParser) asQuick() quickParser { return nil }

func (p listParser) parse(raw any, parent *ObjectData) (any, error) {
	if raw == nil {
		if p.nullable {
			return nil, nil
		}
		return nil, typeMismatch("array")
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, typeMismatch("array")
	}
	if p.lazy {
		return newLazyList(arr, p.elem), nil
	}
	out := make([]any, len(arr))
	for i, rv := range arr {
		parsed, err := p.elem.parse(rv, nil)
		if err != nil {
			return nil, Wrap("", fmt.Sprintf("[%d]", i), err)
		}
		finished, err := p.elem.finish(parsed)
		if err != nil {
			return nil, Wrap("", fmt.Sprintf("[%d]", i), err)
		}
		out[i] = finished
	}
	return eagerList(out), nil
}

func (listParser) finish(stored any) (any, error) { return stored, nil }
func (listParser) isSchemaRef() bool              { return false }
func (listParser) describesRef() *handlerRef      { return nil }

// refParser delegates nested-object parsing to another schema's handler.
// The target ref may be unresolved at construction time (forward/cyclic
// reference); it is guaranteed resolved before any parse runs (spec §3).
type refParser struct {
	ref         *handlerRef
	nullable    bool
	isSubtyping bool
}

func (refParser) asQuick() quickParser { return nil }

func (p refParser) parse(raw any, parent *ObjectData) (any, error) {
	if raw == nil {
		if p.nullable {
			return nil, nil
		}
		return nil, typeMismatch("object")
	}
	h := p.ref.handler
	if h == nil {
		// Guaranteed unreachable once a Session has finished Build (spec §3
		// "every placeholder is resolved before any parse operation runs").
		panic("chromedevtools: unresolved schema reference at parse time: " + string(p.ref.id))
	}
	return h.parse(raw, parent)
}

func (refParser) finish(stored any) (any, error) {
	od, ok := stored.(*ObjectData)
	if !ok || od == nil {
		return nil, nil
	}
	return od.view(), nil
}

func (refParser) isSchemaRef() bool          { return true }
func (p refParser) describesRef() *handlerRef { return p.ref }

// handlerRef is a placeholder for a cross-schema reference, resolved during
// the Session's Link phase (spec §3 "Refs and resolution").
type handlerRef struct {
	id      SchemaID
	handler *TypeHandler
}

package chromedevtools

import "fmt"

// accessorHandler routes one accessor call to its pre-built implementation
// (spec §4.6 "Accessor dispatch"). get returns the user-visible value, or
// an error already wrapped appropriately for the access path it represents
// (callers forward it unchanged).
type accessorHandler interface {
	get(o *ObjectData) (any, error)
}

// preparsedSlotHandler returns finish(slots[i]); no parse cost at call time
// (spec §4.2 "Pre-parsed slot handler").
type preparsedSlotHandler struct {
	slot   int
	parser valueParser
}

func (h preparsedSlotHandler) get(o *ObjectData) (any, error) {
	return h.parser.finish(o.fields[h.slot])
}

// lazyQuickHandler reads the JSON key on every call and reparses via the
// quick parser; no caching, since the parse is assumed cheap to repeat
// (spec §4.2 "Lazy quick-parse handler").
type lazyQuickHandler struct {
	schemaID  SchemaID
	fieldName string
	key       string
	quick     quickParser
	optional  bool
}

func (h lazyQuickHandler) get(o *ObjectData) (any, error) {
	v, err := readField(o, h.schemaID, h.fieldName, h.key, h.optional, asValueParser(h.quick))
	if err != nil {
		return nil, &LazyAccessError{Issues: Wrap(string(h.schemaID), h.fieldName, err)}
	}
	return v, nil
}

// lazyCachedHandler parses via the slow parser and runs the value-finisher
// on first call, then publishes via compare-and-set into the object's lazy
// slot array; subsequent calls return the cached value (spec §4.2 "Lazy
// cached handler").
type lazyCachedHandler struct {
	schemaID  SchemaID
	fieldName string
	key       string
	slot      int
	parser    valueParser
	optional  bool
}

func (h lazyCachedHandler) get(o *ObjectData) (any, error) {
	if s, ok := o.getLazySlot(h.slot); ok {
		return s.value, s.err
	}
	raw, err := readFieldRaw(o, h.schemaID, h.fieldName, h.key, h.optional, h.parser)
	var finished any
	if err == nil {
		finished, err = h.parser.finish(raw)
	}
	var s *lazySlot
	if err != nil {
		s = &lazySlot{err: &LazyAccessError{Issues: Wrap(string(h.schemaID), h.fieldName, err)}}
	} else {
		s = &lazySlot{value: finished}
	}
	s = o.publishLazySlot(h.slot, s)
	return s.value, s.err
}

// readField reads a JSON key from o's raw object and parses it with p,
// running p.finish on success. Used by the eager path and lazyQuickHandler.
func readField(o *ObjectData, schemaID SchemaID, fieldName, key string, optional bool, p valueParser) (any, error) {
	raw, err := readFieldRaw(o, schemaID, fieldName, key, optional, p)
	if err != nil {
		return nil, err
	}
	return p.finish(raw)
}

// readFieldRaw reads and parses (but does not finish) a JSON key.
func readFieldRaw(o *ObjectData, schemaID SchemaID, fieldName, key string, optional bool, p valueParser) (any, error) {
	obj, ok := o.rawObject()
	if !ok {
		return nil, NewParseIssue(string(schemaID), fieldName, CodeNotJSONObject)
	}
	value, present := obj[key]
	if !present {
		if !optional {
			return nil, NewParseIssue(string(schemaID), fieldName, CodeRequired)
		}
		return nil, nil
	}
	return p.parse(value, o)
}

// eagerFieldLoader is run during construction, in declared order, storing
// its result at slot (spec §4.3 step 3).
type eagerFieldLoader struct {
	slot      int
	key       string
	fieldName string
	parser    valueParser
	optional  bool
}

func (l eagerFieldLoader) run(o *ObjectData, schemaID SchemaID) error {
	obj, ok := o.rawObject()
	if !ok {
		return NewParseIssue(string(schemaID), l.fieldName, CodeNotJSONObject)
	}
	value, present := obj[l.key]
	if !present {
		if !l.optional {
			return NewParseIssue(string(schemaID), l.fieldName, CodeRequired)
		}
		o.fields[l.slot] = nil
		return nil
	}
	parsed, err := l.parser.parse(value, o)
	if err != nil {
		return Wrap(string(schemaID), l.fieldName, err)
	}
	o.fields[l.slot] = parsed
	return nil
}

// fieldCondition is one schema's structural signal for automatic subtype
// matching (spec §4.4): all conditions declared on a candidate subtype must
// hold for that subtype to be considered a match.
type fieldCondition struct {
	fieldName string
	predicate func(raw map[string]any) bool
}

func (h *TypeHandler) matchesConditions(raw map[string]any) bool {
	for _, c := range h.conditions {
		if !c.predicate(raw) {
			return false
		}
	}
	return true
}

// subtypeSupport is the dispatch block declared on a schema that has
// subtype casters (spec §4.4).
type subtypeSupport struct {
	mode SubtypeMode

	// automatic mode
	autoSubtypes     []*handlerRef // declaration order
	autoHasDefault   bool
	defaultAccessor  string
	variantCodeSlot  int
	variantValueSlot int

	// manual mode
	manualCasters []manualCaster
}

type manualCaster struct {
	accessor    string
	target      *handlerRef
	reinterpret bool
}

// TypeHandler is the compiled per-schema artifact (spec §3/§4.3).
type TypeHandler struct {
	id         SchemaID
	supertype  *handlerRef
	mode       SubtypeMode
	strict     bool
	conditions []fieldCondition

	fieldArraySize int
	lazySlotCount  int

	eagerLoaders []eagerFieldLoader
	accessors    map[string]accessorHandler
	subtype      *subtypeSupport // nil if this schema declares no subtype casters

	closedNames map[string]struct{} // nil unless strict mode
}

// GetSubtypeSupport exposes the dispatch block, mirroring spec §4.3's
// getSubtypeSupport() entry point.
func (h *TypeHandler) GetSubtypeSupport() *subtypeSupport { return h.subtype }

// ID returns the schema identity this handler was compiled from.
func (h *TypeHandler) ID() SchemaID { return h.id }

// parseRoot is the facade entry point for this handler: it validates the
// raw value is usable for this mode and returns the user-visible View
// (spec §4.3 "parseRoot").
func (h *TypeHandler) parseRoot(raw any) (View, error) {
	od, err := h.parse(raw, nil)
	if err != nil {
		var zero View
		return zero, err
	}
	return od.view(), nil
}

// parse builds an ObjectData for raw, used both as the root entry point and
// for nested/subtype parsing where parent carries the enclosing object
// (spec §4.3 "parse(rawValue, parentData) -> ObjectData").
func (h *TypeHandler) parse(raw any, parent *ObjectData) (*ObjectData, error) {
	if h.mode != SubtypeManual || h.subtype == nil {
		if _, ok := raw.(map[string]any); !ok {
			return nil, NewParseIssue(string(h.id), "", CodeNotJSONObject)
		}
	}

	od := newObjectData(raw, h)

	for _, l := range h.eagerLoaders {
		if err := l.run(od, h.id); err != nil {
			return nil, err
		}
	}

	if h.subtype != nil && h.subtype.mode == SubtypeAutomatic {
		if err := h.dispatchAutomatic(od); err != nil {
			return nil, err
		}
	}

	if h.strict {
		if err := h.checkClosedNameSet(od); err != nil {
			return nil, err
		}
	}

	return od, nil
}

func (h *TypeHandler) dispatchAutomatic(od *ObjectData) error {
	obj, ok := od.rawObject()
	if !ok {
		return NewParseIssue(string(h.id), "", CodeNotJSONObject)
	}
	sup := h.subtype
	matched := -1
	for i, ref := range sup.autoSubtypes {
		sh := ref.handler
		if sh == nil {
			panic("chromedevtools: unresolved subtype reference at parse time: " + string(ref.id))
		}
		if sh.matchesConditions(obj) {
			if matched != -1 {
				return NewParseIssue(string(h.id), "", CodeSubtypeAmbiguous)
			}
			matched = i
		}
	}
	if matched == -1 {
		if !sup.autoHasDefault {
			return NewParseIssue(string(h.id), "", CodeSubtypeNoMatch)
		}
		od.fields[sup.variantCodeSlot] = -1
		od.fields[sup.variantValueSlot] = nil
		return nil
	}
	subHandler := sup.autoSubtypes[matched].handler
	subData, err := subHandler.parse(od.raw, od)
	if err != nil {
		return err
	}
	od.fields[sup.variantCodeSlot] = matched
	od.fields[sup.variantValueSlot] = subData
	return nil
}

func (h *TypeHandler) checkClosedNameSet(od *ObjectData) error {
	obj, ok := od.rawObject()
	if !ok {
		return nil
	}
	for k := range obj {
		if _, ok := h.closedNames[k]; !ok {
			return NewParseIssue(string(h.id), k, CodeUnknownKey)
		}
	}
	return nil
}

// autoSubtypeAccessor implements the accessor exposed for one declared
// automatic subtype: it returns the matched subtype's View iff its code
// equals the stored variant code, else "no value" (spec §4.4).
type autoSubtypeAccessor struct {
	code             int
	variantCodeSlot  int
	variantValueSlot int
}

func (h autoSubtypeAccessor) get(o *ObjectData) (any, error) {
	code, _ := o.fields[h.variantCodeSlot].(int)
	if code != h.code {
		return nil, nil
	}
	sub, _ := o.fields[h.variantValueSlot].(*ObjectData)
	if sub == nil {
		return nil, nil
	}
	return sub.view(), nil
}

// defaultCaseAccessor implements the void "no subtype matched" fallback
// accessor: it reports a sentinel "matched" value when dispatch fell
// through to the default case, and "no value" otherwise (spec §4.4
// "default case").
type defaultCaseAccessor struct {
	variantCodeSlot int
}

// defaultCaseMatched is the sentinel value returned by a matched
// defaultCaseAccessor; View.Matched checks for it instead of a typed
// payload, since the default case carries no fields of its own.
var defaultCaseMatched = struct{}{}

func (h defaultCaseAccessor) get(o *ObjectData) (any, error) {
	code, _ := o.fields[h.variantCodeSlot].(int)
	if code != -1 {
		return nil, nil
	}
	return defaultCaseMatched, nil
}

// manualSubtypeAccessor reparses the same underlying raw value under Target
// on first call, caching the result like any other lazy-cached handler
// (spec §4.4 "Manual mode").
type manualSubtypeAccessor struct {
	schemaID SchemaID
	accessor string
	slot     int
	target   *handlerRef
}

func (h manualSubtypeAccessor) get(o *ObjectData) (any, error) {
	if s, ok := o.getLazySlot(h.slot); ok {
		return s.value, s.err
	}
	th := h.target.handler
	if th == nil {
		panic("chromedevtools: unresolved subtype reference at parse time: " + string(h.target.id))
	}
	sub, err := th.parse(o.raw, o)
	var s *lazySlot
	if err != nil {
		s = &lazySlot{err: &LazyAccessError{Issues: Wrap(string(h.schemaID), h.accessor, err)}}
	} else {
		s = &lazySlot{value: sub.view()}
	}
	s = o.publishLazySlot(h.slot, s)
	return s.value, s.err
}

// baseAccessor routes the "String" and "RawValue" accessor names to a
// handler shared by every schema, used when the schema declares no accessor
// of that name (spec §4.6 "Base accessors"). Equals is a View method and is
// not routed through here.
type baseAccessor func(o *ObjectData) (any, error)

func (f baseAccessor) get(o *ObjectData) (any, error) { return f(o) }

var baseAccessors = map[string]accessorHandler{
	"RawValue": baseAccessor(func(o *ObjectData) (any, error) { return o.RawValue(), nil }),
	"String": baseAccessor(func(o *ObjectData) (any, error) {
		return fmt.Sprintf("%s%v", o.handler.id, o.raw), nil
	}),
}

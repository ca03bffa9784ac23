package chromedevtools

// SchemaID identifies a declared schema within a build batch. It is the
// stable key used for cross-references, including forward and cyclic ones.
type SchemaID string

// FieldDecl declares one field accessor on a schema: its JSON key, value
// shape, optionality/nullability, load strategy and (for automatic
// subtyping) the field-condition predicate used to pick a variant.
type FieldDecl struct {
	// Name is the accessor name exposed on the View. Required.
	Name string
	// Key overrides the JSON object key read for this field; defaults to
	// Name when empty.
	Key string
	// Type is the declared value shape (scalar/enum/list/nested schema).
	// Build a Type with the Int/Bool/Float32/String/RawObject/Enum/List/Ref
	// constructors below.
	Type ValueType
	// Optional marks the field as not required; a missing key on a
	// non-optional field is a hard parse failure.
	Optional bool
	// Nullable permits a JSON null for this field. Forbidden on
	// primitive-shaped types (spec §3 invariants); Build fails otherwise.
	Nullable bool
	// Load selects the eager/lazy strategy; LoadAuto (default) resolves to
	// eager regardless of the value parser's shape (spec §4.2). Declare
	// LoadLazy explicitly to defer a field until first accessor call.
	Load LoadStrategy
	// Condition, when non-nil, is a field-condition predicate: given the
	// raw JSON object of a *candidate supertype* schema, it returns true if
	// this field's schema is the matching subtype. It is used when this
	// FieldDecl's owning schema is listed as an automatic subtype of
	// another schema; it has no effect otherwise.
	Condition func(raw map[string]any) bool
	// Override marks this accessor as shadowing a same-named field declared
	// on the supertype chain, rather than declaring a new field. Overriding
	// accessors are not duplicates for purposes of spec §3's "at most once"
	// invariant, and contribute exactly one name to the closed name set.
	Override bool
}

// SubtypeCasterDecl declares one subtype-dispatch accessor on a schema.
//
// In automatic mode (SchemaDecl.Mode == SubtypeAutomatic), each non-default
// caster names one candidate subtype (Target) whose handler is tried
// against the enclosing object's field conditions; at most one caster's
// target may match for a given raw value. A caster with Default == true
// instead declares the void "no match" fallback case and must not set
// Target.
//
// In manual mode (SchemaDecl.Mode == SubtypeManual), every caster is a
// reinterpretation cast: calling its accessor reparses the same underlying
// raw value under Target on first call and caches the result. Reinterpret
// is recorded on the parent's subtype-support block but does not change
// that behaviour: with either value the accessor reparses the parent's raw
// value, and the resulting object is reachable only through that accessor,
// not as a structural subtype of the parent. Build rejects Reinterpret set
// on an automatic-mode schema.
type SubtypeCasterDecl struct {
	Accessor    string
	Target      SchemaID
	Default     bool
	Reinterpret bool
}

// SchemaDecl is the input descriptor for one schema: fields, subtype
// casters, and an optional single supertype. Schema descriptors are
// immutable once submitted to a Session (spec §3 "Lifecycle").
type SchemaDecl struct {
	ID        SchemaID
	Supertype SchemaID // empty: no supertype
	Fields    []FieldDecl
	Subtypes  []SubtypeCasterDecl
	Mode      SubtypeMode
}

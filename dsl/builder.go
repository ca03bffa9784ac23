// Package dsl provides a fluent builder over chromedevtools.SchemaDecl, so a
// schema batch reads as a sequence of chained calls rather than a struct
// literal with nested slices.
package dsl

import cdt "github.com/vpupkin/chromedevtools"

// SchemaBuilder accumulates one schema's declaration.
type SchemaBuilder struct {
	decl cdt.SchemaDecl
}

// Schema starts a new schema declaration under id.
func Schema(id cdt.SchemaID) *SchemaBuilder {
	return &SchemaBuilder{decl: cdt.SchemaDecl{ID: id}}
}

// Extends declares supertype as this schema's single supertype.
func (b *SchemaBuilder) Extends(supertype cdt.SchemaID) *SchemaBuilder {
	b.decl.Supertype = supertype
	return b
}

// Automatic selects structural automatic subtype dispatch (the default).
func (b *SchemaBuilder) Automatic() *SchemaBuilder {
	b.decl.Mode = cdt.SubtypeAutomatic
	return b
}

// Manual selects caller-selected reinterpretation casts.
func (b *SchemaBuilder) Manual() *SchemaBuilder {
	b.decl.Mode = cdt.SubtypeManual
	return b
}

// Field registers name with the declared value type and returns a fieldStep
// for chaining modifiers onto that field specifically.
func (b *SchemaBuilder) Field(name string, t cdt.ValueType) *fieldStep {
	b.decl.Fields = append(b.decl.Fields, cdt.FieldDecl{Name: name, Type: t})
	return &fieldStep{b: b, idx: len(b.decl.Fields) - 1}
}

// Subtype declares accessor as an automatic-mode candidate subtype naming
// target; target's own SchemaDecl must declare Extends(this schema's id).
func (b *SchemaBuilder) Subtype(accessor string, target cdt.SchemaID) *SchemaBuilder {
	b.decl.Subtypes = append(b.decl.Subtypes, cdt.SubtypeCasterDecl{Accessor: accessor, Target: target})
	return b
}

// DefaultCase declares accessor as the automatic-mode "no subtype matched"
// fallback; at most one per schema.
func (b *SchemaBuilder) DefaultCase(accessor string) *SchemaBuilder {
	b.decl.Subtypes = append(b.decl.Subtypes, cdt.SubtypeCasterDecl{Accessor: accessor, Default: true})
	return b
}

// ManualCast declares accessor as a manual-mode reinterpretation cast onto
// target. reinterpret is stored on the declaration; the built accessor
// reparses the parent's raw value under target whichever value it has.
func (b *SchemaBuilder) ManualCast(accessor string, target cdt.SchemaID, reinterpret bool) *SchemaBuilder {
	b.decl.Subtypes = append(b.decl.Subtypes, cdt.SubtypeCasterDecl{
		Accessor: accessor, Target: target, Reinterpret: reinterpret,
	})
	return b
}

// Build returns the accumulated declaration.
func (b *SchemaBuilder) Build() cdt.SchemaDecl { return b.decl }

// fieldStep chains modifiers onto the field most recently registered with
// SchemaBuilder.Field.
type fieldStep struct {
	b   *SchemaBuilder
	idx int
}

func (f *fieldStep) field() *cdt.FieldDecl { return &f.b.decl.Fields[f.idx] }

// Key overrides the JSON object key read for this field.
func (f *fieldStep) Key(key string) *fieldStep {
	f.field().Key = key
	return f
}

// Optional marks the field as not required.
func (f *fieldStep) Optional() *fieldStep {
	f.field().Optional = true
	return f
}

// Nullable permits a JSON null for this field.
func (f *fieldStep) Nullable() *fieldStep {
	f.field().Nullable = true
	return f
}

// Eager forces pre-parsing at construction time.
func (f *fieldStep) Eager() *fieldStep {
	f.field().Load = cdt.LoadEager
	return f
}

// Lazy forces deferred parsing until first accessor call.
func (f *fieldStep) Lazy() *fieldStep {
	f.field().Load = cdt.LoadLazy
	return f
}

// Condition registers this field as an automatic-subtype match predicate,
// evaluated against the candidate supertype's raw JSON object.
func (f *fieldStep) Condition(fn func(raw map[string]any) bool) *fieldStep {
	f.field().Condition = fn
	return f
}

// Override marks this field as shadowing a same-named inherited field.
func (f *fieldStep) Override() *fieldStep {
	f.field().Override = true
	return f
}

// Field registers another field on the same schema, chaining off fieldStep
// for call sites that prefer not to re-bind the SchemaBuilder each time.
func (f *fieldStep) Field(name string, t cdt.ValueType) *fieldStep { return f.b.Field(name, t) }

// Subtype delegates to SchemaBuilder.Subtype.
func (f *fieldStep) Subtype(accessor string, target cdt.SchemaID) *SchemaBuilder {
	return f.b.Subtype(accessor, target)
}

// Manual delegates to SchemaBuilder.Manual.
func (f *fieldStep) Manual() *SchemaBuilder {
	return f.b.Manual()
}

// Build delegates to SchemaBuilder.Build.
func (f *fieldStep) Build() cdt.SchemaDecl { return f.b.Build() }

// Build compiles a batch of schema declarations into a ready-to-use Parser,
// a thin convenience wrapper over chromedevtools.NewParser for call sites
// assembling a batch entirely out of SchemaBuilder values.
func Build(opts cdt.SessionOptions, schemas ...cdt.SchemaDecl) (*cdt.Parser, error) {
	return cdt.NewParser(schemas, opts)
}

// Package chromedevtools builds typed, immutable accessor objects out of a
// declared batch of schemas and then parses raw decoded JSON against them.
//
// A schema batch is declared with SchemaDecl/FieldDecl/SubtypeCasterDecl (or
// the fluent dsl package) and compiled once with NewParser or a Session; the
// resulting Parser is safe for concurrent use across many goroutines. Each
// successful Parse/ParseAnything call returns a View: a read-only accessor
// surface over one parsed JSON value, backed by a mix of eagerly pre-parsed
// field slots and lazily cached ones.
//
// Design policy:
//   - Keep the handler/session/view machinery in the root package — value
//     parsers need the concrete ObjectData type, which is itself defined in
//     terms of the handler, so splitting parsers into their own package
//     would force an import cycle.
//   - Put the fluent schema-declaration builder under dsl/, the YAML
//     schema-batch loader under schemadecl/, and pluggable byte-to-any
//     decoders under decode/.
//   - Prefer table-driven tests against the public API.
//
// Typical usage:
//
//	p, err := chromedevtools.NewParser(decls, chromedevtools.SessionOptions{Strict: true})
//	view, err := p.Parse(raw, "Frame")
//	id, err := view.String("id")
package chromedevtools

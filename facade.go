package chromedevtools

// Parser is the published entry point over a built batch of schemas: it
// holds no mutable state beyond the compiled handlers, and is safe for
// concurrent use by many callers once NewParser returns (spec §6 "Build
// once, parse concurrently").
type Parser struct {
	handlers map[SchemaID]*TypeHandler
}

// NewParser declares and builds one batch of schemas in a fresh session,
// returning a ready-to-use Parser. Any ModelError aborts construction; no
// Parser is returned in that case (spec §4.5 "no handler is published until
// the whole batch analyzes successfully").
func NewParser(decls []SchemaDecl, opts SessionOptions) (*Parser, error) {
	s := NewSession(opts)
	handlers, err := s.Build(decls)
	if err != nil {
		return nil, err
	}
	return &Parser{handlers: handlers}, nil
}

// NewParserFromSession adopts every handler a Session has built so far,
// including across multiple Build calls — useful when schema batches are
// declared incrementally but still need to resolve cross-batch references.
func NewParserFromSession(s *Session) *Parser {
	handlers := make(map[SchemaID]*TypeHandler, len(s.refs))
	for id, r := range s.refs {
		if r.handler != nil {
			handlers[id] = r.handler
		}
	}
	return &Parser{handlers: handlers}
}

func (p *Parser) handlerFor(id SchemaID) (*TypeHandler, error) {
	h, ok := p.handlers[id]
	if !ok {
		return nil, NewParseIssue(string(id), "", CodeUnknownSchema)
	}
	return h, nil
}

// Parse decodes raw as schema id, requiring raw to be a JSON object at the
// root regardless of the schema's subtype mode (spec §6 "Parse").
func (p *Parser) Parse(raw any, id SchemaID) (View, error) {
	h, err := p.handlerFor(id)
	if err != nil {
		return View{}, err
	}
	if _, isObject := raw.(map[string]any); !isObject {
		return View{}, NewParseIssue(string(id), "", CodeNotJSONObject)
	}
	return h.parseRoot(raw)
}

// ParseAnything decodes raw as schema id without the root-must-be-an-object
// check Parse applies, deferring to the handler's own rule (spec §6
// "ParseAnything"). Manual-subtyping root schemas use this to accept a
// value that is only required to be object-shaped once reinterpreted under
// one of their casters, not at the supertype level itself.
func (p *Parser) ParseAnything(raw any, id SchemaID) (View, error) {
	h, err := p.handlerFor(id)
	if err != nil {
		return View{}, err
	}
	return h.parseRoot(raw)
}

// Handler exposes the compiled handler for id, for callers building their
// own tooling (schema introspection, diagnostics) on top of a Parser.
func (p *Parser) Handler(id SchemaID) (*TypeHandler, bool) {
	h, ok := p.handlers[id]
	return h, ok
}

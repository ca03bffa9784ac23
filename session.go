package chromedevtools

import (
	"log/slog"

	"github.com/google/uuid"
)

// Session accumulates declared schemas across one or more Build calls,
// resolving cross-references (including forward and cyclic ones) by
// sharing a single handlerRef placeholder per schema identity across the
// whole session (spec §4.5, grounded on the two-phase seed/link build used
// by the original dynamic-proxy parser this design descends from).
type Session struct {
	opts      SessionOptions
	refs      map[SchemaID]*handlerRef
	declsByID map[SchemaID]SchemaDecl
	log       *slog.Logger
}

// NewSession starts a fresh build session. Diagnostics go to slog.Default;
// use WithLogger to redirect them.
func NewSession(opts SessionOptions) *Session {
	return &Session{
		opts:      opts,
		refs:      map[SchemaID]*handlerRef{},
		declsByID: map[SchemaID]SchemaDecl{},
		log:       slog.Default(),
	}
}

// WithLogger replaces the Session's diagnostic logger and returns it for
// chaining.
func (s *Session) WithLogger(l *slog.Logger) *Session {
	if l != nil {
		s.log = l
	}
	return s
}

func (s *Session) ref(id SchemaID) *handlerRef {
	if r, ok := s.refs[id]; ok {
		return r
	}
	r := &handlerRef{id: id}
	s.refs[id] = r
	return r
}

// Handler returns the compiled handler for id, if a prior Build call in
// this session has produced one.
func (s *Session) Handler(id SchemaID) (*TypeHandler, bool) {
	r, ok := s.refs[id]
	if !ok || r.handler == nil {
		return nil, false
	}
	return r.handler, true
}

// Build compiles one batch of schema descriptors into TypeHandlers,
// following spec §4.5's ordered phases: seed placeholders and reject
// duplicates, analyze each declaration into field/subtype metadata
// (resolving refs against both this batch and any prior one), link the
// placeholders to the freshly built handlers, wire and validate subtype
// casters, and — in strict mode — construct each schema's closed name set.
// No handler is published (linked into a ref visible to other schemas)
// until every declaration in the batch has analyzed successfully, and a
// batch whose subtype validation or closed-name-set construction fails has
// its handlers unlinked again before Build returns the error.
func (s *Session) Build(decls []SchemaDecl) (map[SchemaID]*TypeHandler, error) {
	buildID := uuid.NewString()
	log := s.log.With("build_id", buildID)
	log.Debug("session build starting", "schema_count", len(decls), "strict", s.opts.Strict)

	seenThisBatch := map[SchemaID]bool{}
	for _, d := range decls {
		if seenThisBatch[d.ID] {
			log.Warn("duplicate schema identity within batch", "schema", d.ID)
			return nil, &ModelError{Code: CodeDuplicateSchema, SchemaID: string(d.ID)}
		}
		seenThisBatch[d.ID] = true
		if r, ok := s.refs[d.ID]; ok && r.handler != nil {
			log.Warn("schema identity already built in a prior batch", "schema", d.ID)
			return nil, &ModelError{Code: CodeDuplicateSchema, SchemaID: string(d.ID)}
		}
		s.declsByID[d.ID] = d
	}
	for _, d := range decls {
		s.ref(d.ID)
	}

	built := make(map[SchemaID]*TypeHandler, len(decls))
	for _, d := range decls {
		h, err := s.analyze(d)
		if err != nil {
			log.Debug("analyze failed", "schema", d.ID, "error", err)
			return nil, err
		}
		built[d.ID] = h
	}

	for id, h := range built {
		s.refs[id].handler = h
	}
	unlink := func() {
		for id := range built {
			s.refs[id].handler = nil
		}
	}

	for _, d := range decls {
		if err := s.validateSubtypes(d, built[d.ID]); err != nil {
			log.Debug("subtype validation failed", "schema", d.ID, "error", err)
			unlink()
			return nil, err
		}
	}

	if s.opts.Strict {
		for _, d := range decls {
			if err := s.buildClosedNameSet(d, built[d.ID]); err != nil {
				log.Debug("closed name set construction failed", "schema", d.ID, "error", err)
				unlink()
				return nil, err
			}
		}
	}

	unresolved := 0
	for id, r := range s.refs {
		if r.handler == nil {
			unresolved++
			log.Debug("schema reference still unresolved after build", "schema", id)
		}
	}
	log.Debug("session build finished", "schema_count", len(decls), "unresolved_refs", unresolved)

	return built, nil
}

// effectiveFields returns d's own fields merged with its supertype chain's
// fields (recursively), with Override fields replacing the inherited entry
// of the same Name in place rather than appending (spec §3 "Override").
func (s *Session) effectiveFields(d SchemaDecl) ([]FieldDecl, error) {
	var inherited []FieldDecl
	if d.Supertype != "" {
		sup, ok := s.declsByID[d.Supertype]
		if !ok {
			return nil, &ModelError{Code: CodeUnresolvedRef, SchemaID: string(d.ID), Field: string(d.Supertype)}
		}
		var err error
		inherited, err = s.effectiveFields(sup)
		if err != nil {
			return nil, err
		}
	}

	result := append([]FieldDecl(nil), inherited...)
	indexByName := make(map[string]int, len(result))
	for i, f := range result {
		indexByName[f.Name] = i
	}
	for _, f := range d.Fields {
		if idx, ok := indexByName[f.Name]; ok {
			if !f.Override {
				return nil, &ModelError{Code: CodeDuplicateFieldName, SchemaID: string(d.ID), Field: f.Name}
			}
			result[idx] = f
			continue
		}
		if f.Override {
			return nil, &ModelError{Code: CodeDuplicateFieldName, SchemaID: string(d.ID), Field: f.Name,
				Detail: "Override set but no inherited field by this name"}
		}
		result = append(result, f)
		indexByName[f.Name] = len(result) - 1
	}
	return result, nil
}

// buildValueParser compiles a declared ValueType into the parser that will
// run at construction or access time, resolving KindRef against a (possibly
// still-unresolved) handlerRef placeholder.
func (s *Session) buildValueParser(vt ValueType, nullable bool) (valueParser, error) {
	switch vt.Kind {
	case KindInt64:
		return asValueParser(intParser{nullable: nullable}), nil
	case KindBool:
		return asValueParser(boolParser{nullable: nullable}), nil
	case KindFloat32:
		return asValueParser(float32Parser{nullable: nullable}), nil
	case KindString:
		return asValueParser(stringParser{nullable: nullable}), nil
	case KindRawObject:
		return asValueParser(rawObjectParser{nullable: nullable}), nil
	case KindJSONObject:
		return asValueParser(jsonObjectParser{nullable: nullable}), nil
	case KindVoid:
		return asValueParser(voidParser{}), nil
	case KindEnum:
		return asValueParser(newEnumParser(vt.EnumNames, nullable)), nil
	case KindList:
		if vt.Elem == nil {
			return nil, &ModelError{Code: CodeUnsupportedType, Detail: "list field declared with no element type"}
		}
		elem, err := s.buildValueParser(*vt.Elem, false)
		if err != nil {
			return nil, err
		}
		return listParser{elem: elem, nullable: nullable, lazy: vt.LazyElems}, nil
	case KindRef:
		if vt.Ref == "" {
			return nil, &ModelError{Code: CodeUnsupportedType, Detail: "ref field declared with no target schema id"}
		}
		return refParser{ref: s.ref(vt.Ref), nullable: nullable}, nil
	default:
		return nil, &ModelError{Code: CodeUnsupportedType, Detail: "unrecognized value kind"}
	}
}

// analyze compiles one schema declaration into a TypeHandler: its effective
// fields (own plus inherited), eager/lazy slot assignment, field-condition
// predicates, and subtype-dispatch accessors. Cross-schema refs are bound to
// (possibly still-unresolved) placeholders; resolution is completed by the
// caller once every handler in the batch has been built (spec §4.5 "analyze
// / link").
func (s *Session) analyze(d SchemaDecl) (*TypeHandler, error) {
	fields, err := s.effectiveFields(d)
	if err != nil {
		return nil, err
	}

	h := &TypeHandler{
		id:        d.ID,
		mode:      d.Mode,
		strict:    s.opts.Strict,
		accessors: map[string]accessorHandler{},
	}
	if d.Supertype != "" {
		h.supertype = s.ref(d.Supertype)
	}

	fieldSlot := 0
	lazySlot := 0

	for _, f := range fields {
		if f.Nullable && f.Type.Kind.primitiveShaped() {
			return nil, &ModelError{Code: CodeIllegalNullable, SchemaID: string(d.ID), Field: f.Name}
		}
		ft := f.Type
		if ft.Kind == KindList && f.Load == LoadLazy {
			ft.LazyElems = true
		}
		parser, err := s.buildValueParser(ft, f.Nullable)
		if err != nil {
			return nil, err
		}
		key := f.Key
		if key == "" {
			key = f.Name
		}
		if f.Condition != nil {
			h.conditions = append(h.conditions, fieldCondition{fieldName: f.Name, predicate: f.Condition})
		}

		quick := parser.asQuick() != nil
		// AUTO resolves to eager for every parser, quick or slow: only an
		// explicit LAZY defers parsing, and even then only a slow parser gets
		// the cached-lazy path below (a quick parser stays cheap to reparse
		// on every call instead).
		useEager := f.Load == LoadEager || f.Load == LoadAuto

		switch {
		case useEager:
			slot := fieldSlot
			fieldSlot++
			h.eagerLoaders = append(h.eagerLoaders, eagerFieldLoader{
				slot: slot, key: key, fieldName: f.Name, parser: parser, optional: f.Optional,
			})
			h.accessors[f.Name] = preparsedSlotHandler{slot: slot, parser: parser}
		case quick:
			h.accessors[f.Name] = lazyQuickHandler{
				schemaID: d.ID, fieldName: f.Name, key: key, quick: parser.asQuick(), optional: f.Optional,
			}
		default:
			slot := lazySlot
			lazySlot++
			h.accessors[f.Name] = lazyCachedHandler{
				schemaID: d.ID, fieldName: f.Name, key: key, slot: slot, parser: parser, optional: f.Optional,
			}
		}
	}

	if len(d.Subtypes) > 0 {
		sup := &subtypeSupport{mode: d.Mode}
		type autoCase struct {
			accessor string
			ref      *handlerRef
		}
		var autoCases []autoCase

		for _, sc := range d.Subtypes {
			if sc.Default {
				if d.Mode != SubtypeAutomatic {
					return nil, &ModelError{Code: CodeBadReinterpretFlag, SchemaID: string(d.ID),
						Detail: "default case is only valid in automatic mode"}
				}
				if sup.autoHasDefault {
					return nil, &ModelError{Code: CodeDuplicateDefaultCase, SchemaID: string(d.ID)}
				}
				sup.autoHasDefault = true
				sup.defaultAccessor = sc.Accessor
				continue
			}
			ref := s.ref(sc.Target)
			switch d.Mode {
			case SubtypeAutomatic:
				if sc.Reinterpret {
					return nil, &ModelError{Code: CodeBadReinterpretFlag, SchemaID: string(d.ID), Field: sc.Accessor}
				}
				autoCases = append(autoCases, autoCase{accessor: sc.Accessor, ref: ref})
			case SubtypeManual:
				slot := lazySlot
				lazySlot++
				sup.manualCasters = append(sup.manualCasters, manualCaster{
					accessor: sc.Accessor, target: ref, reinterpret: sc.Reinterpret,
				})
				h.accessors[sc.Accessor] = manualSubtypeAccessor{
					schemaID: d.ID, accessor: sc.Accessor, slot: slot, target: ref,
				}
			}
		}

		if d.Mode == SubtypeAutomatic && (len(autoCases) > 0 || sup.autoHasDefault) {
			sup.variantCodeSlot = fieldSlot
			fieldSlot++
			sup.variantValueSlot = fieldSlot
			fieldSlot++
			for i, c := range autoCases {
				sup.autoSubtypes = append(sup.autoSubtypes, c.ref)
				h.accessors[c.accessor] = autoSubtypeAccessor{
					code: i, variantCodeSlot: sup.variantCodeSlot, variantValueSlot: sup.variantValueSlot,
				}
			}
			if sup.autoHasDefault && sup.defaultAccessor != "" {
				h.accessors[sup.defaultAccessor] = defaultCaseAccessor{variantCodeSlot: sup.variantCodeSlot}
			}
		}
		h.subtype = sup
	}

	h.fieldArraySize = fieldSlot
	h.lazySlotCount = lazySlot
	return h, nil
}

// validateSubtypes checks consistency between a schema's subtype-dispatch
// block and the target schemas it names, once every handler in the batch
// has a resolved ref (spec §4.5 "wire subtype casters / check consistency").
func (s *Session) validateSubtypes(d SchemaDecl, h *TypeHandler) error {
	if h.subtype == nil {
		return nil
	}
	switch h.subtype.mode {
	case SubtypeAutomatic:
		for _, ref := range h.subtype.autoSubtypes {
			if ref.handler == nil {
				return &ModelError{Code: CodeUnresolvedRef, SchemaID: string(d.ID), Field: string(ref.id)}
			}
			subDecl, ok := s.declsByID[ref.id]
			if !ok || subDecl.Supertype != d.ID {
				return &ModelError{Code: CodeMissingSubtypeCaster, SchemaID: string(ref.id),
					Detail: "must declare Supertype " + string(d.ID) + " to be used as an automatic subtype of it"}
			}
		}
	case SubtypeManual:
		for _, mc := range h.subtype.manualCasters {
			if mc.target.handler == nil {
				return &ModelError{Code: CodeUnresolvedRef, SchemaID: string(d.ID), Field: mc.accessor}
			}
		}
	}
	return nil
}

// buildClosedNameSet computes the closed set of JSON object keys a strict
// schema will accept: its own effective fields plus, transitively, every
// automatic subtype's effective fields, since a raw object validated by the
// supertype handler may in fact belong to any of them (spec §4.3 "closed
// name set").
func (s *Session) buildClosedNameSet(d SchemaDecl, h *TypeHandler) error {
	names := map[string]struct{}{}
	if err := s.collectNames(d, names, map[SchemaID]bool{}); err != nil {
		return err
	}
	h.closedNames = names
	return nil
}

func (s *Session) collectNames(d SchemaDecl, out map[string]struct{}, visited map[SchemaID]bool) error {
	if visited[d.ID] {
		return nil
	}
	visited[d.ID] = true

	fields, err := s.effectiveFields(d)
	if err != nil {
		return err
	}
	for _, f := range fields {
		k := f.Key
		if k == "" {
			k = f.Name
		}
		out[k] = struct{}{}
	}
	for _, sc := range d.Subtypes {
		if sc.Default {
			continue
		}
		if sub, ok := s.declsByID[sc.Target]; ok {
			if err := s.collectNames(sub, out, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

package chromedevtools_test

import (
	"errors"
	"sync"
	"testing"

	cdt "github.com/vpupkin/chromedevtools"
	"github.com/vpupkin/chromedevtools/dsl"
)

func TestScalarRoundTripAndRequiredField(t *testing.T) {
	decl := dsl.Schema("Point").
		Field("x", cdt.Int()).
		Field("y", cdt.Int()).
		Build()

	p, err := cdt.NewParser([]cdt.SchemaDecl{decl}, cdt.SessionOptions{})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	view, err := p.Parse(map[string]any{"x": float64(1), "y": float64(2)}, "Point")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	x, err := view.Int("x")
	if err != nil || x != 1 {
		t.Fatalf("x = %v, %v; want 1, nil", x, err)
	}

	_, err = p.Parse(map[string]any{"x": float64(1)}, "Point")
	if err == nil {
		t.Fatalf("expected error for missing required field y")
	}
	iss, ok := cdt.AsParseIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != cdt.CodeRequired {
		t.Fatalf("expected CodeRequired ParseIssues, got %v", err)
	}
}

func TestNullableVsOptionalTypeMismatch(t *testing.T) {
	decl := dsl.Schema("Box").
		Field("label", cdt.String()).Nullable().
		Field("size", cdt.Ref("Size")).Optional().
		Build()
	sizeDecl := dsl.Schema("Size").Field("w", cdt.Int()).Build()

	p, err := cdt.NewParser([]cdt.SchemaDecl{decl, sizeDecl}, cdt.SessionOptions{})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	view, err := p.Parse(map[string]any{"label": nil}, "Box")
	if err != nil {
		t.Fatalf("Parse with null label: %v", err)
	}
	label, err := view.String("label")
	if err != nil || label != "" {
		t.Fatalf("label = %q, %v; want \"\", nil", label, err)
	}

	_, err = p.Parse(map[string]any{"label": float64(5)}, "Box")
	if err == nil {
		t.Fatalf("expected type-mismatch error for non-string label")
	}
}

func TestIllegalNullableOnPrimitiveIsModelError(t *testing.T) {
	decl := dsl.Schema("Bad").Field("n", cdt.Int()).Nullable().Build()

	_, err := cdt.NewParser([]cdt.SchemaDecl{decl}, cdt.SessionOptions{})
	if err == nil {
		t.Fatalf("expected ModelError for nullable int field")
	}
	var me *cdt.ModelError
	if !errors.As(err, &me) || me.Code != cdt.CodeIllegalNullable {
		t.Fatalf("expected CodeIllegalNullable ModelError, got %v", err)
	}
}

func TestAutomaticSubtypingMatchAndDefaultCase(t *testing.T) {
	base := dsl.Schema("Shape").
		Field("kind", cdt.String()).
		Subtype("AsCircle", "Circle").
		Subtype("AsSquare", "Square").
		DefaultCase("AsUnknownShape").
		Build()
	circle := dsl.Schema("Circle").Extends("Shape").
		Field("kind", cdt.String()).
		Condition(func(raw map[string]any) bool { k, _ := raw["kind"].(string); return k == "circle" }).
		Override().
		Field("radius", cdt.Int()).
		Build()
	square := dsl.Schema("Square").Extends("Shape").
		Field("kind", cdt.String()).
		Condition(func(raw map[string]any) bool { k, _ := raw["kind"].(string); return k == "square" }).
		Override().
		Field("side", cdt.Int()).
		Build()

	p, err := cdt.NewParser([]cdt.SchemaDecl{base, circle, square}, cdt.SessionOptions{})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	view, err := p.Parse(map[string]any{"kind": "circle", "radius": float64(3)}, "Shape")
	if err != nil {
		t.Fatalf("Parse circle: %v", err)
	}
	sub, ok, err := view.Sub("AsCircle")
	if err != nil || !ok {
		t.Fatalf("AsCircle: ok=%v err=%v", ok, err)
	}
	if r, _ := sub.Int("radius"); r != 3 {
		t.Fatalf("radius = %d; want 3", r)
	}

	view, err = p.Parse(map[string]any{"kind": "hexagon"}, "Shape")
	if err != nil {
		t.Fatalf("Parse unmatched kind: %v", err)
	}
	matched, err := view.Matched("AsUnknownShape")
	if err != nil || !matched {
		t.Fatalf("AsUnknownShape should report matched=true when no case matches, got %v, %v", matched, err)
	}
	if _, ok, _ := view.Sub("AsCircle"); ok {
		t.Fatalf("AsCircle should not match an unrelated kind")
	}
}

func TestAutomaticSubtypeAmbiguousConditionsIsParseError(t *testing.T) {
	base := dsl.Schema("Animal").
		Field("legs", cdt.Int()).
		Subtype("AsDog", "Dog").
		Subtype("AsAnyLegged", "AnyLegged").
		Build()
	dog := dsl.Schema("Dog").Extends("Animal").
		Field("legs", cdt.Int()).
		Condition(func(raw map[string]any) bool { n, _ := raw["legs"].(float64); return n == 4 }).
		Override().
		Build()
	anyLegged := dsl.Schema("AnyLegged").Extends("Animal").
		Field("legs", cdt.Int()).
		Condition(func(raw map[string]any) bool { return true }).
		Override().
		Build()

	p, err := cdt.NewParser([]cdt.SchemaDecl{base, dog, anyLegged}, cdt.SessionOptions{})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	_, err = p.Parse(map[string]any{"legs": float64(4)}, "Animal")
	iss, ok := cdt.AsParseIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != cdt.CodeSubtypeAmbiguous {
		t.Fatalf("expected CodeSubtypeAmbiguous, got %v", err)
	}
}

func TestLazyListElementIsolationAndStrictRejection(t *testing.T) {
	decl := dsl.Schema("Bag").
		Field("items", cdt.ListOf(cdt.Ref("Item"))).Lazy().
		Build()
	item := dsl.Schema("Item").Field("id", cdt.String()).Build()

	p, err := cdt.NewParser([]cdt.SchemaDecl{decl, item}, cdt.SessionOptions{Strict: true})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	raw := map[string]any{"items": []any{
		map[string]any{"id": "a"},
		map[string]any{"id": "b", "extra": "not declared"},
		map[string]any{"id": "c"},
	}}
	view, err := p.Parse(raw, "Bag")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	list, err := view.List("items")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list.Len() != 3 {
		t.Fatalf("Len() = %d; want 3", list.Len())
	}

	v0, err := list.Get(0)
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	if id, _ := v0.(cdt.View).String("id"); id != "a" {
		t.Fatalf("items[0].id = %q; want a", id)
	}

	v2, err := list.Get(2)
	if err != nil {
		t.Fatalf("Get(2) should succeed even though index 1 fails strict validation: %v", err)
	}
	if id, _ := v2.(cdt.View).String("id"); id != "c" {
		t.Fatalf("items[2].id = %q; want c", id)
	}

	_, err = list.Get(1)
	if err == nil {
		t.Fatalf("expected Get(1) to fail strict unknown-key validation")
	}
	var lae *cdt.LazyAccessError
	if !errors.As(err, &lae) {
		t.Fatalf("expected *LazyAccessError, got %v (%T)", err, err)
	}
}

func TestConcurrentLazyListAccessSerializesPerIndex(t *testing.T) {
	decl := dsl.Schema("Bag").Field("items", cdt.ListOf(cdt.Ref("Item"))).Lazy().Build()
	item := dsl.Schema("Item").Field("id", cdt.String()).Build()

	p, err := cdt.NewParser([]cdt.SchemaDecl{decl, item}, cdt.SessionOptions{})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	raw := map[string]any{"items": []any{map[string]any{"id": "only"}}}
	view, err := p.Parse(raw, "Bag")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	list, _ := view.List("items")

	var wg sync.WaitGroup
	results := make([]cdt.View, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := list.Get(0)
			if err != nil {
				t.Errorf("Get(0): %v", err)
				return
			}
			results[i] = v.(cdt.View)
		}(i)
	}
	wg.Wait()
	for i := 1; i < 16; i++ {
		if !results[i].Equals(results[0]) {
			t.Fatalf("concurrent Get(0) produced distinct views at index %d", i)
		}
	}
}

func TestCyclicReferencesResolveAcrossTheBatch(t *testing.T) {
	node := dsl.Schema("Node").
		Field("id", cdt.String()).
		Field("next", cdt.Ref("Node")).Optional().Nullable().
		Build()

	p, err := cdt.NewParser([]cdt.SchemaDecl{node}, cdt.SessionOptions{})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	raw := map[string]any{"id": "a", "next": map[string]any{"id": "b", "next": nil}}
	view, err := p.Parse(raw, "Node")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sub, ok, err := view.Sub("next")
	if err != nil || !ok {
		t.Fatalf("next: ok=%v err=%v", ok, err)
	}
	if id, _ := sub.String("id"); id != "b" {
		t.Fatalf("next.id = %q; want b", id)
	}
}

func TestOverrideFieldIsNotADuplicateAndStrictParseAcceptsSubtypeKeys(t *testing.T) {
	base := dsl.Schema("Base").
		Field("kind", cdt.String()).
		Subtype("AsDerived", "Derived").
		Build()
	derived := dsl.Schema("Derived").Extends("Base").
		Field("kind", cdt.String()).
		Condition(func(raw map[string]any) bool { return true }).
		Override().
		Field("extra", cdt.Int()).
		Build()

	p, err := cdt.NewParser([]cdt.SchemaDecl{base, derived}, cdt.SessionOptions{Strict: true})
	if err != nil {
		t.Fatalf("NewParser with Override field: %v", err)
	}

	_, err = p.Parse(map[string]any{"kind": "x", "extra": float64(1)}, "Base")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
}

func TestManualSubtypeReinterpretationCast(t *testing.T) {
	raw := dsl.Schema("RawMessage").
		Field("payload", cdt.RawObject()).
		Manual().
		ManualCast("AsPing", "Ping", false).
		ManualCast("AsPong", "Pong", true).
		Build()
	ping := dsl.Schema("Ping").Field("seq", cdt.Int()).Build()
	pong := dsl.Schema("Pong").Field("seq", cdt.Int()).Build()

	p, err := cdt.NewParser([]cdt.SchemaDecl{raw, ping, pong}, cdt.SessionOptions{})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	view, err := p.Parse(map[string]any{"payload": map[string]any{}, "seq": float64(7)}, "RawMessage")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	asPing, ok, err := view.Sub("AsPing")
	if err != nil || !ok {
		t.Fatalf("AsPing: ok=%v err=%v", ok, err)
	}
	if seq, _ := asPing.Int("seq"); seq != 7 {
		t.Fatalf("AsPing.seq = %d; want 7", seq)
	}

	asPong, ok, err := view.Sub("AsPong")
	if err != nil || !ok {
		t.Fatalf("AsPong: ok=%v err=%v", ok, err)
	}
	if seq, _ := asPong.Int("seq"); seq != 7 {
		t.Fatalf("AsPong.seq = %d; want 7", seq)
	}
}

func TestDuplicateFieldNameWithoutOverrideIsModelError(t *testing.T) {
	base := dsl.Schema("Base2").Field("kind", cdt.String()).Build()
	derived := dsl.Schema("Derived2").Extends("Base2").
		Field("kind", cdt.String()).
		Build()

	_, err := cdt.NewParser([]cdt.SchemaDecl{base, derived}, cdt.SessionOptions{})
	if err == nil {
		t.Fatalf("expected ModelError for duplicate field name without Override")
	}
	var me *cdt.ModelError
	if !errors.As(err, &me) || me.Code != cdt.CodeDuplicateFieldName {
		t.Fatalf("expected CodeDuplicateFieldName, got %v", err)
	}
}

package chromedevtools

// ValueKind enumerates the value shapes a FieldDecl may declare.
type ValueKind int

const (
	KindInt64 ValueKind = iota
	KindBool
	KindFloat32
	KindString
	// KindRawObject accepts any JSON value unchanged (the "opaque pass-through"
	// scalar — spec §4.1's unchecked pass-through parser).
	KindRawObject
	// KindJSONObject requires the raw value to be a JSON object and passes it
	// through unchanged as map[string]any.
	KindJSONObject
	KindVoid
	KindEnum
	KindList
	// KindRef names another schema; the field's value is a nested parsed
	// object of that schema.
	KindRef
)

// primitiveShaped reports whether k is one of the primitive-shaped kinds for
// which spec §3 forbids declaring Nullable.
func (k ValueKind) primitiveShaped() bool {
	switch k {
	case KindInt64, KindBool, KindFloat32, KindEnum, KindVoid:
		return true
	default:
		return false
	}
}

// ValueType describes the declared shape of a field's value. Construct one
// with the Int/Bool/Float32/String/RawObject/JSONObject/Void/Enum/List/Ref
// helpers rather than composing the struct literally.
type ValueType struct {
	Kind      ValueKind
	EnumNames []string   // KindEnum only
	Elem      *ValueType // KindList only
	Ref       SchemaID   // KindRef only
	// LazyElems requests per-index lazy parsing for KindList elements. It is
	// normally left false and driven instead by the owning FieldDecl's Load
	// strategy (spec §4.1/§4.2), which sets it on the field's outermost
	// KindList when Load is LoadLazy. A value set directly is honoured at
	// any KindList level, including a list nested as another list's element.
	LazyElems bool
}

func Int() ValueType        { return ValueType{Kind: KindInt64} }
func Bool() ValueType       { return ValueType{Kind: KindBool} }
func Float32() ValueType    { return ValueType{Kind: KindFloat32} }
func String() ValueType     { return ValueType{Kind: KindString} }
func RawObject() ValueType  { return ValueType{Kind: KindRawObject} }
func JSONObject() ValueType { return ValueType{Kind: KindJSONObject} }
func Void() ValueType       { return ValueType{Kind: KindVoid} }

func Enum(names ...string) ValueType {
	return ValueType{Kind: KindEnum, EnumNames: append([]string(nil), names...)}
}

// ListOf declares a list-typed field whose elements are shaped by elem.
func ListOf(elem ValueType) ValueType {
	e := elem
	return ValueType{Kind: KindList, Elem: &e}
}

func Ref(id SchemaID) ValueType {
	return ValueType{Kind: KindRef, Ref: id}
}

package i18n

import "fmt"

// Translator retrieves localized messages for error codes. data provides
// optional metadata to embed in the message (for example, the schema or
// field name).
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "required":
			return requiredMessage(data, "フィールド %q は必須です (スキーマ %q)")
		case "invalid_type":
			return "型が不正です"
		case "unknown_key":
			return "未知のキーです"
		case "unknown_enum_name":
			return "未知の列挙名です"
		case "subtype_ambiguous":
			return "複数のサブタイプ条件が一致しました"
		case "subtype_no_match":
			return "サブタイプ条件が一致せず、デフォルトケースもありません"
		case "unresolved_ref":
			return "未解決の型参照です"
		case "duplicate_schema":
			return "スキーマ識別子が重複しています"
		case "duplicate_field":
			return "フィールド名が重複しています"
		case "illegal_nullable":
			return "この型には nullable を宣言できません"
		case "missing_subtype_caster":
			return "サブタイプキャスターが登録されていません"
		case "bad_reinterpret_flag":
			return "reinterpret は手動サブタイプ以外では使用できません"
		case "duplicate_default_case":
			return "デフォルトケースが重複しています"
		case "not_json_object":
			return "JSON オブジェクトが必要です"
		case "unknown_schema":
			return "未知のスキーマ識別子です"
		}
	default: // "en"
		switch code {
		case "required":
			return requiredMessage(data, "field %q is not optional (schema %q)")
		case "invalid_type":
			return "invalid type"
		case "unknown_key":
			return "unknown key"
		case "unknown_enum_name":
			return "unknown enum name"
		case "subtype_ambiguous":
			return "more than one subtype case matches"
		case "subtype_no_match":
			return "no subtype case matches and no default case was declared"
		case "unresolved_ref":
			return "unresolved type reference"
		case "duplicate_schema":
			return "duplicate schema identity"
		case "duplicate_field":
			return "duplicate field name"
		case "illegal_nullable":
			return "nullable cannot be declared on this type"
		case "missing_subtype_caster":
			return "subtype participates in dispatch but has no caster installed"
		case "bad_reinterpret_flag":
			return "reinterpret flag is only valid in manual-subtyping mode"
		case "duplicate_default_case":
			return "duplicate default-case accessor"
		case "not_json_object":
			return "expected a JSON object"
		case "unknown_schema":
			return "unknown schema identity"
		}
	}
	return code
}

// requiredMessage fills in the canonical "field %q is not optional (schema
// %q)" text (and its ja equivalent) from data's "field"/"schema" entries.
func requiredMessage(data map[string]string, format string) string {
	return fmt.Sprintf(format, data["field"], data["schema"])
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

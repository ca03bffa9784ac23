package chromedevtools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vpupkin/chromedevtools/i18n"
)

// Model-error codes. Raised only during Build(); a ModelError is a fatal
// configuration bug in the declared schema batch, never a data problem.
const (
	CodeDuplicateSchema      = "duplicate_schema"
	CodeUnresolvedRef        = "unresolved_ref"
	CodeIllegalNullable      = "illegal_nullable"
	CodeMissingSubtypeCaster = "missing_subtype_caster"
	CodeBadReinterpretFlag   = "bad_reinterpret_flag"
	CodeDuplicateFieldName   = "duplicate_field"
	CodeDuplicateDefaultCase = "duplicate_default_case"
	CodeUnsupportedType      = "unsupported_type"
)

// Parse-error codes. Raised during parse; indicate input data that does not
// conform to a built schema.
const (
	CodeInvalidType      = "invalid_type"
	CodeRequired         = "required"
	CodeUnknownKey       = "unknown_key"
	CodeUnknownEnumName  = "unknown_enum_name"
	CodeSubtypeAmbiguous = "subtype_ambiguous"
	CodeSubtypeNoMatch   = "subtype_no_match"
	CodeNotJSONObject    = "not_json_object"
	CodeUnknownSchema    = "unknown_schema"
)

// ModelError describes a programmer mistake in a declared schema batch,
// detected during Session.Build. It is always fatal: handlers are never
// published if any ModelError is returned.
type ModelError struct {
	Code     string
	SchemaID string
	Field    string // optional: the accessor/field name involved, if any
	Detail   string // optional: extra context appended to the message
	Cause    error
}

func (e *ModelError) Error() string {
	msg := i18n.T(e.Code, nil)
	var b strings.Builder
	b.WriteString(msg)
	if e.SchemaID != "" {
		fmt.Fprintf(&b, " (schema %q", e.SchemaID)
		if e.Field != "" {
			fmt.Fprintf(&b, ", field %q", e.Field)
		}
		b.WriteString(")")
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

func (e *ModelError) Unwrap() error { return e.Cause }

// ParseIssue is a single field-level parse failure, wrapped with the
// breadcrumbs spec §7 requires: the field name and enclosing schema identity.
// Path joins the field names and list indices from the outermost object
// down to the failing field; it does not contain schema identities.
// SchemaID and Field name the schema and field that own the failure, not
// the outer levels.
type ParseIssue struct {
	Path     string // dotted breadcrumb path, e.g. "items.[1].id"
	SchemaID string
	Field    string
	Code     string
	Message  string
	Cause    error
}

// ParseIssues is a collection of ParseIssue that implements error. Parsing
// fails fast by spec (one mismatch aborts the parse), so in practice this
// slice usually holds exactly one entry; it remains a slice so that wrapping
// at each nesting level can prepend breadcrumbs without losing the original.
type ParseIssues []ParseIssue

func (iss ParseIssues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	var b strings.Builder
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(&b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(&b, "; ... (total %d)", n)
	}
	return b.String()
}

// Wrap prepends field as a breadcrumb to the Path of every issue in err and
// returns the resulting ParseIssues; schemaID is not added to the Path, and
// is recorded (with field) only on issues that do not yet name a schema.
// Used at each nesting level per spec §7.
func Wrap(schemaID, field string, err error) ParseIssues {
	if err == nil {
		return nil
	}
	if existing, ok := AsParseIssues(err); ok {
		out := make(ParseIssues, len(existing))
		for i, it := range existing {
			path := it.Path
			if path == "" {
				path = field
			} else if field != "" {
				path = field + "." + path
			}
			sid, fld := it.SchemaID, it.Field
			if sid == "" && schemaID != "" {
				sid, fld = schemaID, field
			}
			out[i] = ParseIssue{
				Path: path, SchemaID: sid, Field: fld,
				Code: it.Code, Message: it.Message, Cause: it.Cause,
			}
		}
		return out
	}
	return ParseIssues{{
		Path: field, SchemaID: schemaID, Field: field,
		Code: CodeInvalidType, Message: err.Error(), Cause: err,
	}}
}

// NewParseIssue builds a single-element ParseIssues for a leaf failure.
func NewParseIssue(schemaID, field, code string) ParseIssues {
	data := map[string]string{"schema": schemaID, "field": field}
	return ParseIssues{{
		Path: field, SchemaID: schemaID, Field: field,
		Code: code, Message: i18n.T(code, data),
	}}
}

// AsParseIssues extracts ParseIssues from an error using errors.As.
func AsParseIssues(err error) (ParseIssues, bool) {
	if err == nil {
		return nil, false
	}
	var iss ParseIssues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// LazyAccessError wraps a ParseIssues surfaced through an accessor call after
// the object's initial eager parse already succeeded (spec §7: "Lazy-path
// errors ... are wrapped in a distinct runtime-error envelope since the
// accessor's declared contract does not thread checked errors"). Callers
// that need the checked form should use the schema's eager/strict parse path
// instead of triggering a lazy field.
type LazyAccessError struct {
	Issues ParseIssues
}

func (e *LazyAccessError) Error() string { return "lazy parse failed: " + e.Issues.Error() }
func (e *LazyAccessError) Unwrap() error { return e.Issues }

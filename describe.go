package chromedevtools

import "github.com/vpupkin/chromedevtools/jsonschema"

// FieldShapes implements jsonschema.Describer over a Session's declared
// schema batch, letting tooling render a schema's shape without reaching
// into parser internals.
func (s *Session) FieldShapes(id string) (fields []jsonschema.FieldShape, required []string, ok bool) {
	d, found := s.declsByID[SchemaID(id)]
	if !found {
		return nil, nil, false
	}
	effective, err := s.effectiveFields(d)
	if err != nil {
		return nil, nil, false
	}
	for _, f := range effective {
		shape := jsonschema.FieldShape{Name: f.Name, Nullable: f.Nullable}
		switch f.Type.Kind {
		case KindInt64:
			shape.Type = "integer"
		case KindBool:
			shape.Type = "boolean"
		case KindFloat32:
			shape.Type = "number"
		case KindString, KindEnum:
			shape.Type = "string"
		case KindRawObject, KindJSONObject:
			shape.Type = "object"
		case KindVoid:
			shape.Type = "null"
		case KindList:
			shape.Type = "array"
			if f.Type.Elem != nil {
				shape.ItemType = jsonSchemaTypeFor(f.Type.Elem.Kind)
			}
		case KindRef:
			shape.RefSchema = string(f.Type.Ref)
		}
		fields = append(fields, shape)
		if !f.Optional {
			required = append(required, f.Name)
		}
	}
	return fields, required, true
}

func jsonSchemaTypeFor(k ValueKind) string {
	switch k {
	case KindInt64:
		return "integer"
	case KindBool:
		return "boolean"
	case KindFloat32:
		return "number"
	case KindString, KindEnum:
		return "string"
	case KindRawObject, KindJSONObject:
		return "object"
	case KindVoid:
		return "null"
	case KindList:
		return "array"
	default:
		return ""
	}
}

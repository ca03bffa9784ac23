// Package schemadecl loads a batch of chromedevtools.SchemaDecl from a YAML
// document, an alternative authoring surface to hand-written Go literals or
// the dsl builder. Grounded on the teacher's kubeopenapi YAML-to-schema
// importer: a yaml.v3 decode into a small intermediate representation,
// then a conversion pass into the real declaration types.
package schemadecl

import (
	"fmt"

	"gopkg.in/yaml.v3"

	cdt "github.com/vpupkin/chromedevtools"
)

// document is the on-disk YAML shape: a list of schema declarations.
type document struct {
	Schemas []schemaNode `yaml:"schemas"`
}

type schemaNode struct {
	ID        string        `yaml:"id"`
	Supertype string        `yaml:"supertype"`
	Mode      string        `yaml:"mode"` // "automatic" (default) | "manual"
	Fields    []fieldNode   `yaml:"fields"`
	Subtypes  []subtypeNode `yaml:"subtypes"`
}

type fieldNode struct {
	Name     string   `yaml:"name"`
	Key      string   `yaml:"key"`
	Type     typeNode `yaml:"type"`
	Optional bool     `yaml:"optional"`
	Nullable bool     `yaml:"nullable"`
	Load     string   `yaml:"load"` // "auto" (default) | "eager" | "lazy"
	Override bool     `yaml:"override"`
}

// typeNode is a recursive value-shape description. Kind selects which of
// the other fields apply: "int" | "bool" | "float32" | "string" |
// "rawobject" | "jsonobject" | "void" | "enum" | "list" | "ref".
type typeNode struct {
	Kind      string    `yaml:"kind"`
	EnumNames []string  `yaml:"enumNames"`
	Elem      *typeNode `yaml:"elem"`
	Ref       string    `yaml:"ref"`
	LazyElems bool      `yaml:"lazyElems"`
}

type subtypeNode struct {
	Accessor    string `yaml:"accessor"`
	Target      string `yaml:"target"`
	Default     bool   `yaml:"default"`
	Reinterpret bool   `yaml:"reinterpret"`
}

// Load parses a YAML document into a batch of SchemaDecl, ready to pass to
// chromedevtools.NewParser or a Session.
func Load(data []byte) ([]cdt.SchemaDecl, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemadecl: %w", err)
	}

	decls := make([]cdt.SchemaDecl, 0, len(doc.Schemas))
	for _, sn := range doc.Schemas {
		d, err := convertSchema(sn)
		if err != nil {
			return nil, fmt.Errorf("schemadecl: schema %q: %w", sn.ID, err)
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func convertSchema(sn schemaNode) (cdt.SchemaDecl, error) {
	d := cdt.SchemaDecl{
		ID:        cdt.SchemaID(sn.ID),
		Supertype: cdt.SchemaID(sn.Supertype),
	}
	switch sn.Mode {
	case "", "automatic":
		d.Mode = cdt.SubtypeAutomatic
	case "manual":
		d.Mode = cdt.SubtypeManual
	default:
		return d, fmt.Errorf("unknown mode %q", sn.Mode)
	}

	for _, fn := range sn.Fields {
		vt, err := convertType(fn.Type)
		if err != nil {
			return d, fmt.Errorf("field %q: %w", fn.Name, err)
		}
		load, err := convertLoad(fn.Load)
		if err != nil {
			return d, fmt.Errorf("field %q: %w", fn.Name, err)
		}
		d.Fields = append(d.Fields, cdt.FieldDecl{
			Name: fn.Name, Key: fn.Key, Type: vt,
			Optional: fn.Optional, Nullable: fn.Nullable,
			Load: load, Override: fn.Override,
		})
	}

	for _, sc := range sn.Subtypes {
		d.Subtypes = append(d.Subtypes, cdt.SubtypeCasterDecl{
			Accessor: sc.Accessor, Target: cdt.SchemaID(sc.Target),
			Default: sc.Default, Reinterpret: sc.Reinterpret,
		})
	}
	return d, nil
}

func convertLoad(s string) (cdt.LoadStrategy, error) {
	switch s {
	case "", "auto":
		return cdt.LoadAuto, nil
	case "eager":
		return cdt.LoadEager, nil
	case "lazy":
		return cdt.LoadLazy, nil
	default:
		return 0, fmt.Errorf("unknown load strategy %q", s)
	}
}

func convertType(tn typeNode) (cdt.ValueType, error) {
	switch tn.Kind {
	case "int":
		return cdt.Int(), nil
	case "bool":
		return cdt.Bool(), nil
	case "float32":
		return cdt.Float32(), nil
	case "string":
		return cdt.String(), nil
	case "rawobject":
		return cdt.RawObject(), nil
	case "jsonobject":
		return cdt.JSONObject(), nil
	case "void":
		return cdt.Void(), nil
	case "enum":
		return cdt.Enum(tn.EnumNames...), nil
	case "list":
		if tn.Elem == nil {
			return cdt.ValueType{}, fmt.Errorf("list type missing elem")
		}
		elem, err := convertType(*tn.Elem)
		if err != nil {
			return cdt.ValueType{}, err
		}
		lt := cdt.ListOf(elem)
		lt.LazyElems = tn.LazyElems
		return lt, nil
	case "ref":
		if tn.Ref == "" {
			return cdt.ValueType{}, fmt.Errorf("ref type missing ref")
		}
		return cdt.Ref(cdt.SchemaID(tn.Ref)), nil
	default:
		return cdt.ValueType{}, fmt.Errorf("unknown type kind %q", tn.Kind)
	}
}

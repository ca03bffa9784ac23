// Package decode turns raw JSON bytes into the plain any values
// (map[string]any / []any / string / float64 / bool / nil) that
// chromedevtools.Parser.Parse and ParseAnything expect as their root value.
//
// A Driver is pluggable, mirroring the teacher's JSONDriver streaming SPI
// without carrying streaming itself: the default driver decodes through
// goccy/go-json, and SetDriver swaps in the fastjson-backed alternate for
// call sites that have already standardized on that library elsewhere in
// their pipeline.
package decode

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/valyala/fastjson"
)

// Driver decodes a JSON document into an any tree.
type Driver interface {
	DecodeAny(data []byte) (any, error)
}

type goJSONDriver struct{}

func (goJSONDriver) DecodeAny(data []byte) (any, error) {
	var v any
	if err := gojson.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}

// fastjsonDriver decodes via valyala/fastjson and walks the resulting
// *fastjson.Value tree into the same plain-any shapes goJSONDriver produces,
// so callers can swap drivers without changing anything downstream.
type fastjsonDriver struct {
	parserPool fastjson.ParserPool
}

func (d *fastjsonDriver) DecodeAny(data []byte) (any, error) {
	p := d.parserPool.Get()
	defer d.parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fastjsonToAny(v), nil
}

func fastjsonToAny(v *fastjson.Value) any {
	if v == nil {
		return nil
	}
	switch v.Type() {
	case fastjson.TypeObject:
		obj := v.GetObject()
		out := make(map[string]any, obj.Len())
		obj.Visit(func(key []byte, vv *fastjson.Value) {
			out[string(key)] = fastjsonToAny(vv)
		})
		return out
	case fastjson.TypeArray:
		items := v.GetArray()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = fastjsonToAny(it)
		}
		return out
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.GetFloat64()
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeNull:
		return nil
	default:
		return nil
	}
}

// GoJSON is the default driver, backed by goccy/go-json.
var GoJSON Driver = goJSONDriver{}

// FastJSON is the alternate high-throughput driver, backed by
// valyala/fastjson.
var FastJSON Driver = &fastjsonDriver{}

var current = GoJSON

// SetDriver switches the package-level Decode function's driver.
func SetDriver(d Driver) {
	if d != nil {
		current = d
	}
}

// Decode runs the currently selected driver over data.
func Decode(data []byte) (any, error) {
	return current.DecodeAny(data)
}

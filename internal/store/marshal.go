package store

import (
	"fmt"

	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
)

// marshalValue converts an IR value to canonical JSON TEXT for storage.
func marshalValue(what string, v ir.IRValue) (string, error) {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", what, err)
	}
	return string(data), nil
}

// unmarshalValue parses canonical JSON TEXT. Large integers survive via
// json.Number inside ir.UnmarshalIRValue.
func unmarshalValue(what, data string) (ir.IRValue, error) {
	v, err := ir.UnmarshalIRValue([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return v, nil
}

func unmarshalObject(what, data string) (ir.IRObject, error) {
	v, err := unmarshalValue(what, data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(ir.IRObject)
	if !ok {
		return nil, fmt.Errorf("unmarshal %s: expected object, got %s", what, ir.TypeName(v))
	}
	return obj, nil
}

// graphValue is the stored form of a graph.
func graphValue(g *graph.Context) ir.IRObject {
	return ir.IRObject{
		graph.FieldID: ir.IRString(g.ID()),
		"nodes":       records(g.Nodes()),
		"edges":       records(g.Edges()),
		"lines":       records(g.Lines()),
	}
}

func records(recs []ir.IRObject) ir.IRArray {
	out := make(ir.IRArray, len(recs))
	for i, r := range recs {
		out[i] = r
	}
	return out
}

// graphFromValue rebuilds a graph from its stored form.
func graphFromValue(v ir.IRObject) (*graph.Context, error) {
	id, ok := v.String(graph.FieldID)
	if !ok {
		return nil, fmt.Errorf("stored graph: missing id")
	}
	var parts [3][]ir.IRObject
	for i, key := range []string{"nodes", "edges", "lines"} {
		arr, ok := v[key].(ir.IRArray)
		if !ok {
			return nil, fmt.Errorf("stored graph %s: %s is not a list", id, key)
		}
		for j, e := range arr {
			rec, ok := e.(ir.IRObject)
			if !ok {
				return nil, fmt.Errorf("stored graph %s: %s[%d] is not an object", id, key, j)
			}
			parts[i] = append(parts[i], rec)
		}
	}
	return graph.New(id, parts[0], parts[1], parts[2])
}

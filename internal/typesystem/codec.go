package typesystem

import (
	"encoding/json"
	"fmt"
)

// wireType is the tagged JSON form of a type expression. It keeps
// variable owners and class names that the textual syntax cannot spell
// (e.g. Go types such as map[string]int).
type wireType struct {
	Tag   string      `json:"t"`
	Name  string      `json:"n,omitempty"`
	Owner string      `json:"o,omitempty"`
	Args  []*wireType `json:"a,omitempty"`
	Elem  *wireType   `json:"e,omitempty"`
}

const (
	tagCon      = "con"
	tagVar      = "var"
	tagApp      = "app"
	tagArray    = "arr"
	tagWildcard = "wild"
)

// MarshalType encodes a type expression as JSON. A nil type encodes as null.
func MarshalType(t Type) ([]byte, error) {
	w, err := toWire(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalType decodes a type expression produced by MarshalType.
func UnmarshalType(data []byte) (Type, error) {
	var w *wireType
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding type: %w", err)
	}
	return fromWire(w)
}

func toWire(t Type) (*wireType, error) {
	switch typ := t.(type) {
	case nil:
		return nil, nil
	case TCon:
		return &wireType{Tag: tagCon, Name: typ.Name}, nil
	case TVar:
		return &wireType{Tag: tagVar, Name: typ.Name, Owner: typ.Owner}, nil
	case TApp:
		w := &wireType{Tag: tagApp, Name: typ.Constructor.Name}
		for _, arg := range typ.Args {
			a, err := toWire(arg)
			if err != nil {
				return nil, err
			}
			w.Args = append(w.Args, a)
		}
		return w, nil
	case TArray:
		elem, err := toWire(typ.Elem)
		if err != nil {
			return nil, err
		}
		return &wireType{Tag: tagArray, Elem: elem}, nil
	case TWildcard:
		upper, err := toWire(typ.Upper)
		if err != nil {
			return nil, err
		}
		return &wireType{Tag: tagWildcard, Elem: upper}, nil
	default:
		return nil, fmt.Errorf("cannot encode type %T", t)
	}
}

func fromWire(w *wireType) (Type, error) {
	if w == nil {
		return nil, nil
	}
	switch w.Tag {
	case tagCon:
		return TCon{Name: w.Name}, nil
	case tagVar:
		return TVar{Owner: w.Owner, Name: w.Name}, nil
	case tagApp:
		args := make([]Type, len(w.Args))
		for i, a := range w.Args {
			arg, err := fromWire(a)
			if err != nil {
				return nil, err
			}
			if arg == nil {
				return nil, fmt.Errorf("decoding type: %s has a null argument", w.Name)
			}
			args[i] = arg
		}
		return TApp{Constructor: TCon{Name: w.Name}, Args: args}, nil
	case tagArray:
		elem, err := fromWire(w.Elem)
		if err != nil {
			return nil, err
		}
		if elem == nil {
			return nil, fmt.Errorf("decoding type: array without component")
		}
		return TArray{Elem: elem}, nil
	case tagWildcard:
		upper, err := fromWire(w.Elem)
		if err != nil {
			return nil, err
		}
		return TWildcard{Upper: upper}, nil
	default:
		return nil, fmt.Errorf("decoding type: unknown tag %q", w.Tag)
	}
}

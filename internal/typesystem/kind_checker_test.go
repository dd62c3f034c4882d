package typesystem

import (
	"errors"
	"testing"
)

type arityEnv map[string]int

func (e arityEnv) ClassKind(name string) (Kind, bool) {
	n, ok := e[name]
	if !ok {
		return nil, false
	}
	return ClassKind(n), true
}

func testKindEnv() KindEnv {
	return arityEnv{"String": 0, "Integer": 0, "List": 1, "Map": 2}
}

func TestKindCheck(t *testing.T) {
	scope := ParamScope("A", []string{"T"})
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"String", false},
		{"List", false}, // raw use
		{"List<T>", false},
		{"Map<String, List<Integer>>[]", false},
		{"List<? extends Map<String, T>>", false},
		{"Map<String>", true},
		{"String<Integer>", true},
		{"List<Unknown>", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typ := MustParse(tt.input, scope)
			k, err := KindCheck(typ, testKindEnv())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !k.Equal(Star) {
				t.Errorf("kind = %s, want *", k)
			}
		})
	}
}

func TestKindCheckErrors(t *testing.T) {
	_, err := KindCheck(MustParse("Map<String>", nil), testKindEnv())
	var arityErr *ArityError
	if !errors.As(err, &arityErr) {
		t.Fatalf("expected ArityError, got %v", err)
	}
	if arityErr.Class != "Map" || arityErr.Want != 2 || arityErr.Got != 1 {
		t.Errorf("arity error = %+v", arityErr)
	}

	_, err = KindCheck(MustParse("List<Foo>", nil), testKindEnv())
	var notFound *ClassNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "Foo" {
		t.Errorf("expected ClassNotFoundError for Foo, got %v", err)
	}
}

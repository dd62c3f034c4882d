package typesystem

import "fmt"

// KindEnv supplies the kinds of named classes during kind checking.
type KindEnv interface {
	ClassKind(name string) (Kind, bool)
}

// UnifyKinds performs a strict equality check of two kinds.
func UnifyKinds(k1, k2 Kind) error {
	if k1.Equal(k2) {
		return nil
	}
	return fmt.Errorf("kind mismatch: expected %s, got %s", k1, k2)
}

// KindCheck validates that a type expression is well-kinded: every
// parameterized class receives exactly as many arguments as it declares.
// A bare class reference is a raw use and is always accepted.
// Unknown classes are reported as errors.
func KindCheck(t Type, env KindEnv) (Kind, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot check kind of nil type")
	}

	switch typ := t.(type) {
	case TCon:
		if _, ok := env.ClassKind(typ.Name); !ok {
			return nil, NewClassNotFoundError(typ.Name)
		}
		return Star, nil
	case TVar:
		return Star, nil
	case TApp:
		return checkTAppKind(typ, env)
	case TArray:
		return checkStar(typ.Elem, env, "array component")
	case TWildcard:
		if typ.Upper == nil {
			return Star, nil
		}
		return checkStar(typ.Upper, env, "wildcard bound")
	default:
		return Star, nil
	}
}

func checkStar(t Type, env KindEnv, what string) (Kind, error) {
	k, err := KindCheck(t, env)
	if err != nil {
		return nil, err
	}
	if !k.Equal(Star) {
		return nil, fmt.Errorf("%s must be a type (kind *), got kind %s", what, k)
	}
	return Star, nil
}

func checkTAppKind(t TApp, env KindEnv) (Kind, error) {
	kCtor, ok := env.ClassKind(t.Constructor.Name)
	if !ok {
		return nil, NewClassNotFoundError(t.Constructor.Name)
	}
	if want := Arity(kCtor); want != len(t.Args) {
		return nil, NewArityError(t.Constructor.Name, want, len(t.Args))
	}

	currKind := kCtor
	for _, arg := range t.Args {
		kArg, err := KindCheck(arg, env)
		if err != nil {
			return nil, err
		}
		arrow := currKind.(KArrow)
		if err := UnifyKinds(arrow.Left, kArg); err != nil {
			return nil, fmt.Errorf("in %s: %w", t, err)
		}
		currKind = arrow.Right
	}
	return currKind, nil
}

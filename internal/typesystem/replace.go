package typesystem

// ReplaceVarsErr rewrites every type variable in t with the result of fn.
// The rewrite is single-level: replacements are not themselves rewritten.
// The first error stops the rewrite.
func ReplaceVarsErr(t Type, fn func(TVar) (Type, error)) (Type, error) {
	if t == nil {
		return nil, nil
	}
	switch typ := t.(type) {
	case TVar:
		return fn(typ)
	case TApp:
		newArgs := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			a, err := ReplaceVarsErr(arg, fn)
			if err != nil {
				return nil, err
			}
			newArgs[i] = a
		}
		return TApp{Constructor: typ.Constructor, Args: newArgs}, nil
	case TArray:
		elem, err := ReplaceVarsErr(typ.Elem, fn)
		if err != nil {
			return nil, err
		}
		return TArray{Elem: elem}, nil
	case TWildcard:
		if typ.Upper == nil {
			return typ, nil
		}
		upper, err := ReplaceVarsErr(typ.Upper, fn)
		if err != nil {
			return nil, err
		}
		return TWildcard{Upper: upper}, nil
	default:
		return t, nil
	}
}

// ClassName returns the class a supertype expression refers to, together
// with the type arguments it supplies. ok is false for variables, arrays
// and wildcards, which cannot name a supertype.
func ClassName(t Type) (name string, args []Type, ok bool) {
	switch typ := t.(type) {
	case TCon:
		return typ.Name, nil, true
	case TApp:
		return typ.Constructor.Name, typ.Args, true
	default:
		return "", nil, false
	}
}

package typesystem

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/typeargs/internal/config"
)

// Scope maps type parameter names visible at a usage site to the class
// that declares them.
type Scope map[string]string

// ParamScope returns the scope of a class declaring the given parameters.
func ParamScope(owner string, params []string) Scope {
	s := make(Scope, len(params))
	for _, p := range params {
		s[p] = owner
	}
	return s
}

// Parse reads a textual type expression such as
//
//	Map<String, List<T>>[]
//	? extends Comparable<T>
//
// Bare identifiers found in scope become type variables; every other
// identifier is a class reference.
func Parse(input string, scope Scope) (Type, error) {
	p := &typeParser{input: input, scope: scope}
	p.skipSpace()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, p.errorf("unexpected %q", p.input[p.pos:])
	}
	return t, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func MustParse(input string, scope Scope) Type {
	t, err := Parse(input, scope)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	input string
	pos   int
	scope Scope
}

func (p *typeParser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Input: p.input, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek(tok string) bool {
	return strings.HasPrefix(p.input[p.pos:], tok)
}

// peekKeyword is peek for a keyword that must not run into an identifier.
func (p *typeParser) peekKeyword(kw string) bool {
	if !p.peek(kw) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(p.input[p.pos+len(kw):])
	return !isIdentRune(r, false)
}

func (p *typeParser) parseType() (Type, error) {
	if p.peek(config.WildcardToken) {
		return p.parseWildcard()
	}

	base, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !p.peek(config.ArraySuffix) {
			return base, nil
		}
		p.pos += len(config.ArraySuffix)
		base = TArray{Elem: base}
	}
}

func (p *typeParser) parseWildcard() (Type, error) {
	p.pos += len(config.WildcardToken)
	p.skipSpace()
	if !p.peekKeyword(config.WildcardExtends) {
		return TWildcard{}, nil
	}
	p.pos += len(config.WildcardExtends)
	p.skipSpace()
	upper, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return TWildcard{Upper: upper}, nil
}

func (p *typeParser) parseBase() (Type, error) {
	name := p.parseIdent()
	if name == "" {
		if p.pos >= len(p.input) {
			return nil, p.errorf("unexpected end of input")
		}
		return nil, p.errorf("expected type name")
	}

	p.skipSpace()
	if !p.peek("<") {
		if owner, ok := p.scope[name]; ok {
			return TVar{Owner: owner, Name: name}, nil
		}
		return TCon{Name: name}, nil
	}
	if _, ok := p.scope[name]; ok {
		return nil, p.errorf("type parameter %q cannot take arguments", name)
	}

	p.pos++ // '<'
	var args []Type
	for {
		p.skipSpace()
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		switch {
		case p.peek(","):
			p.pos++
		case p.peek(">"):
			p.pos++
			return TApp{Constructor: TCon{Name: name}, Args: args}, nil
		default:
			return nil, p.errorf("expected ',' or '>'")
		}
	}
}

func (p *typeParser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.input) {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !isIdentRune(r, p.pos == start) {
			break
		}
		p.pos += size
	}
	return p.input[start:p.pos]
}

// Qualified names (java.util.List, example.com/pkg.Box) are single identifiers.
func isIdentRune(r rune, first bool) bool {
	if r == '_' || r == '$' || unicode.IsLetter(r) {
		return true
	}
	if first {
		return false
	}
	return unicode.IsDigit(r) || r == '.' || r == '/' || r == '-'
}

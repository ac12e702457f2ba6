package expr

import (
	"fmt"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/source"
)

// parser is a recursive-descent, precedence-climbing parser over the
// binding-expression grammar, structured like cue/parser's single
// lookahead token parser (scan one token ahead, advance on match).
type parser struct {
	file   source.NormalizedPath
	base   int // offset of this expression's start within the containing document
	sc     *scanner
	tok    token
	diags  diag.List
}

// Parse parses one binding expression (the contents of a `.bind`/
// `.trigger`/etc attribute, or one `${...}` interpolation segment). base
// is the document-absolute offset of src's first byte, used to rebase
// every produced span to the containing document (§4.6 "absolute spans
// rebased").
func Parse(src string, file source.NormalizedPath, base int) (Expr, diag.List) {
	p := &parser{file: file, base: base, sc: newScanner(src)}
	p.advance()
	e := p.parseAssign()
	if p.tok.kind != tokEOF {
		p.errorf("unexpected trailing input %q in expression", p.tok.lit)
	}
	return e, p.diags
}

// ParseForOf parses a `repeat.for` declaration: `item of items` or
// `[k, v] of entries`.
func ParseForOf(src string, file source.NormalizedPath, base int) (*ForOfBinding, diag.List) {
	p := &parser{file: file, base: base, sc: newScanner(src)}
	p.advance()
	decl := p.parseForOfDeclaration()
	if p.tok.lit != "of" {
		p.errorf("expected 'of' in repeat.for declaration, got %q", p.tok.lit)
		return &ForOfBinding{base: base2(p, 0, len(src)), Declaration: decl}, p.diags
	}
	start := p.tok.pos
	p.advance()
	iterable := p.parseAssign()
	return &ForOfBinding{base: base2(p, start, len(src)), Declaration: decl, Iterable: iterable}, p.diags
}

func (p *parser) parseForOfDeclaration() string {
	if p.tok.lit == "[" || p.tok.lit == "{" {
		open, close := p.tok.lit, "]"
		if open == "{" {
			close = "}"
		}
		start := p.tok.pos
		depth := 0
		var raw string
		for {
			if p.tok.lit == open {
				depth++
			}
			if p.tok.lit == close {
				depth--
			}
			raw = p.sc.src[start:p.sc.pos]
			if depth == 0 || p.tok.kind == tokEOF {
				p.advance()
				break
			}
			p.advance()
		}
		return raw
	}
	name := p.tok.lit
	p.advance()
	return name
}

func base2(p *parser, start, end int) base {
	return base{source.Span{Start: p.base + start, End: p.base + end, File: p.file}}
}

func (p *parser) advance() { p.tok = p.sc.next() }

func (p *parser) errorf(format string, args ...any) {
	p.diags.Add(diag.Diagnostic{
		Code:     "expr-parse-error",
		Stage:    diag.StageLower,
		Severity: diag.Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     source.Span{Start: p.base + p.tok.pos, End: p.base + p.tok.pos, File: p.file},
	})
}

func (p *parser) spanFrom(start int) source.Span {
	return source.Span{Start: p.base + start, End: p.base + p.sc.pos, File: p.file}
}

// parseAssign is the lowest-precedence production: `target = value`.
func (p *parser) parseAssign() Expr {
	start := p.tok.pos
	left := p.parseConditional()
	if p.tok.lit == "=" {
		p.advance()
		right := p.parseAssign()
		return &Assign{base: base{p.spanFrom(start)}, Target: left, Value: right}
	}
	return left
}

func (p *parser) parseConditional() Expr {
	start := p.tok.pos
	cond := p.parseBindingBehavior()
	if p.tok.lit == "?" {
		p.advance()
		yes := p.parseAssign()
		if p.tok.lit != ":" {
			p.errorf("expected ':' in conditional expression")
		} else {
			p.advance()
		}
		no := p.parseAssign()
		return &Conditional{base: base{p.spanFrom(start)}, Cond: cond, Yes: yes, No: no}
	}
	return cond
}

// parseBindingBehavior handles `&name:args`, the lowest-precedence
// binding-only operator (only valid at the top of a binding attribute's
// expression, but accepted here uniformly; the lowering stage rejects a
// behavior/converter found outside attribute position if needed).
func (p *parser) parseBindingBehavior() Expr {
	start := p.tok.pos
	e := p.parseValueConverter()
	for p.tok.lit == "&" {
		p.advance()
		name := p.tok.lit
		p.advance()
		args := p.parseChainArgs()
		e = &BindingBehavior{base: base{p.spanFrom(start)}, Expr: e, Name: name, Args: args}
	}
	return e
}

func (p *parser) parseValueConverter() Expr {
	start := p.tok.pos
	e := p.parseLogicalOr()
	for p.tok.lit == "|" {
		p.advance()
		name := p.tok.lit
		p.advance()
		args := p.parseChainArgs()
		e = &ValueConverter{base: base{p.spanFrom(start)}, Expr: e, Name: name, Args: args}
	}
	return e
}

// parseChainArgs reads `:arg1:arg2...` trailing a value-converter or
// binding-behavior name.
func (p *parser) parseChainArgs() []Expr {
	var args []Expr
	for p.tok.lit == ":" {
		p.advance()
		args = append(args, p.parseLogicalOr())
	}
	return args
}

func (p *parser) parseLogicalOr() Expr  { return p.parseBinaryLevel([]string{"||", "??"}, p.parseLogicalAnd) }
func (p *parser) parseLogicalAnd() Expr { return p.parseBinaryLevel([]string{"&&"}, p.parseEquality) }
func (p *parser) parseEquality() Expr {
	return p.parseBinaryLevel([]string{"==", "!=", "===", "!=="}, p.parseRelational)
}
func (p *parser) parseRelational() Expr {
	return p.parseBinaryLevel([]string{"<", ">", "<=", ">=", "in", "instanceof"}, p.parseAdditive)
}
func (p *parser) parseAdditive() Expr {
	return p.parseBinaryLevel([]string{"+", "-"}, p.parseMultiplicative)
}
func (p *parser) parseMultiplicative() Expr {
	return p.parseBinaryLevel([]string{"*", "/", "%"}, p.parseUnary)
}

func (p *parser) parseBinaryLevel(ops []string, next func() Expr) Expr {
	start := p.tok.pos
	left := next()
	for containsOp(ops, p.tok.lit) {
		op := p.tok.lit
		p.advance()
		right := next()
		left = &Binary{base: base{p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}
	return left
}

func containsOp(ops []string, lit string) bool {
	for _, o := range ops {
		if o == lit {
			return true
		}
	}
	return false
}

func (p *parser) parseUnary() Expr {
	start := p.tok.pos
	switch p.tok.lit {
	case "!", "-", "+", "typeof", "void":
		op := p.tok.lit
		p.advance()
		operand := p.parseUnary()
		return &Unary{base: base{p.spanFrom(start)}, Op: op, Operand: operand}
	}
	return p.parseLeftHandSide()
}

// parseLeftHandSide handles the primary expression plus any chain of
// `.name`, `[key]`, and `(args)` postfix operators.
func (p *parser) parseLeftHandSide() Expr {
	start := p.tok.pos
	e := p.parsePrimary()
	for {
		switch p.tok.lit {
		case ".":
			p.advance()
			name := p.tok.lit
			p.advance()
			if p.tok.lit == "(" {
				args := p.parseArgList()
				e = &CallMember{base: base{p.spanFrom(start)}, Object: e, Name: name, Args: args}
			} else {
				e = &AccessMember{base: base{p.spanFrom(start)}, Object: e, Name: name}
			}
		case "?.":
			p.advance()
			name := p.tok.lit
			p.advance()
			if p.tok.lit == "(" {
				args := p.parseArgList()
				e = &CallMember{base: base{p.spanFrom(start)}, Object: e, Name: name, Args: args, Optional: true}
			} else {
				e = &AccessMember{base: base{p.spanFrom(start)}, Object: e, Name: name, Optional: true}
			}
		case "[":
			p.advance()
			key := p.parseAssign()
			if p.tok.lit != "]" {
				p.errorf("expected ']' in keyed access")
			} else {
				p.advance()
			}
			e = &AccessKeyed{base: base{p.spanFrom(start)}, Object: e, Key: key}
		case "(":
			args := p.parseArgList()
			e = &CallFunction{base: base{p.spanFrom(start)}, Func: e, Args: args}
		default:
			return e
		}
	}
}

func (p *parser) parseArgList() []Expr {
	p.advance() // consume '('
	var args []Expr
	for p.tok.lit != ")" && p.tok.kind != tokEOF {
		args = append(args, p.parseAssign())
		if p.tok.lit == "," {
			p.advance()
			continue
		}
		break
	}
	if p.tok.lit == ")" {
		p.advance()
	} else {
		p.errorf("expected ')' to close argument list")
	}
	return args
}

func (p *parser) parsePrimary() Expr {
	start := p.tok.pos
	switch {
	case p.tok.kind == tokNumber:
		raw := p.tok.lit
		p.advance()
		return &LiteralPrimitive{base: base{p.spanFrom(start)}, Raw: raw}
	case p.tok.kind == tokString:
		raw := p.tok.lit
		p.advance()
		return &LiteralPrimitive{base: base{p.spanFrom(start)}, Raw: raw}
	case p.tok.lit == "$parent":
		ancestor := 0
		for p.tok.lit == "$parent" {
			ancestor++
			p.advance()
			if p.tok.lit == "." {
				p.advance()
			} else {
				break
			}
		}
		if p.tok.kind == tokIdent && !isReservedWord(p.tok.lit) {
			name := p.tok.lit
			p.advance()
			if p.tok.lit == "(" {
				args := p.parseArgList()
				return &CallScope{base: base{p.spanFrom(start)}, Name: name, Args: args, Ancestor: ancestor}
			}
			return &AccessScope{base: base{p.spanFrom(start)}, Name: name, Ancestor: ancestor}
		}
		return &AccessThis{base: base{p.spanFrom(start)}, Ancestor: ancestor}
	case p.tok.lit == "$this":
		p.advance()
		return &AccessThis{base: base{p.spanFrom(start)}, Ancestor: 0}
	case p.tok.lit == "true" || p.tok.lit == "false" || p.tok.lit == "null" || p.tok.lit == "undefined":
		raw := p.tok.lit
		p.advance()
		return &LiteralPrimitive{base: base{p.spanFrom(start)}, Raw: raw}
	case p.tok.kind == tokIdent:
		name := p.tok.lit
		p.advance()
		if p.tok.lit == "(" {
			args := p.parseArgList()
			return &CallScope{base: base{p.spanFrom(start)}, Name: name, Args: args}
		}
		return &AccessScope{base: base{p.spanFrom(start)}, Name: name}
	case p.tok.lit == "(":
		p.advance()
		e := p.parseAssign()
		if p.tok.lit == ")" {
			p.advance()
		} else {
			p.errorf("expected ')' to close parenthesized expression")
		}
		return e
	case p.tok.lit == "[":
		p.advance()
		var elems []Expr
		for p.tok.lit != "]" && p.tok.kind != tokEOF {
			elems = append(elems, p.parseAssign())
			if p.tok.lit == "," {
				p.advance()
				continue
			}
			break
		}
		if p.tok.lit == "]" {
			p.advance()
		} else {
			p.errorf("expected ']' to close array literal")
		}
		return &LiteralArray{base: base{p.spanFrom(start)}, Elements: elems}
	case p.tok.lit == "{":
		p.advance()
		var keys []string
		var vals []Expr
		for p.tok.lit != "}" && p.tok.kind != tokEOF {
			key := p.tok.lit
			p.advance()
			if p.tok.lit != ":" {
				p.errorf("expected ':' in object literal")
			} else {
				p.advance()
			}
			keys = append(keys, key)
			vals = append(vals, p.parseAssign())
			if p.tok.lit == "," {
				p.advance()
				continue
			}
			break
		}
		if p.tok.lit == "}" {
			p.advance()
		} else {
			p.errorf("expected '}' to close object literal")
		}
		return &LiteralObject{base: base{p.spanFrom(start)}, Keys: keys, Values: vals}
	default:
		p.errorf("unexpected token %q in expression", p.tok.lit)
		p.advance()
		return &LiteralPrimitive{base: base{p.spanFrom(start)}, Raw: "undefined"}
	}
}

func isReservedWord(lit string) bool {
	switch lit {
	case "true", "false", "null", "undefined", "typeof", "void", "in", "instanceof":
		return true
	default:
		return false
	}
}

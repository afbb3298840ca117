// Package formula evaluates the arithmetic expressions behind computed
// columns, such as "quantity * unitPrice".
//
// The grammar is the usual one: + - * / with parentheses, unary minus,
// decimal literals and identifiers naming columns of the same table.
package formula

import (
	"fmt"
	"math"
	"strconv"
	"unicode"
)

// Expr is a parsed formula.
type Expr struct {
	src  string
	root node
	refs []string
}

// Lookup resolves an identifier to a number. ok is false when the value
// is absent, which makes the whole expression absent.
type Lookup func(id string) (value float64, ok bool)

type node interface {
	eval(Lookup) (float64, bool)
}

type number float64

func (n number) eval(Lookup) (float64, bool) { return float64(n), true }

type ref string

func (r ref) eval(l Lookup) (float64, bool) { return l(string(r)) }

type neg struct{ x node }

func (n neg) eval(l Lookup) (float64, bool) {
	v, ok := n.x.eval(l)
	return -v, ok
}

type binary struct {
	op   byte
	l, r node
}

func (b binary) eval(l Lookup) (float64, bool) {
	x, ok := b.l.eval(l)
	if !ok {
		return 0, false
	}
	y, ok := b.r.eval(l)
	if !ok {
		return 0, false
	}
	var v float64
	switch b.op {
	case '+':
		v = x + y
	case '-':
		v = x - y
	case '*':
		v = x * y
	case '/':
		if y == 0 {
			return 0, false
		}
		v = x / y
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Parse compiles src.
func Parse(src string) (*Expr, error) {
	p := &parser{src: src, seen: map[string]bool{}}
	p.next()
	root, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("formula %q: unexpected %q at %d", src, p.tok.text, p.tok.pos)
	}
	return &Expr{src: src, root: root, refs: p.refs}, nil
}

// String returns the source text.
func (e *Expr) String() string { return e.src }

// Refs returns the identifiers the formula reads, in order of first use.
func (e *Expr) Refs() []string {
	return append([]string(nil), e.refs...)
}

// Eval computes the formula. ok is false when an operand is missing or
// the result is not a finite number.
func (e *Expr) Eval(l Lookup) (float64, bool) {
	return e.root.eval(l)
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
	tokErr
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type parser struct {
	src  string
	pos  int
	tok  token
	refs []string
	seen map[string]bool
}

func (p *parser) next() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: p.pos}
		return
	}
	start := p.pos
	c := rune(p.src[p.pos])
	switch {
	case unicode.IsDigit(c) || c == '.':
		for p.pos < len(p.src) && (unicode.IsDigit(rune(p.src[p.pos])) || p.src[p.pos] == '.') {
			p.pos++
		}
		p.tok = token{kind: tokNum, text: p.src[start:p.pos], pos: start}
	case unicode.IsLetter(c) || c == '_':
		for p.pos < len(p.src) {
			r := rune(p.src[p.pos])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.pos], pos: start}
	case c == '+' || c == '-' || c == '*' || c == '/' || c == '(' || c == ')':
		p.pos++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
	default:
		p.pos++
		p.tok = token{kind: tokErr, text: string(c), pos: start}
	}
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text[0]
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) term() (node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "*" || p.tok.text == "/") {
		op := p.tok.text[0]
		p.next()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) factor() (node, error) {
	t := p.tok
	switch t.kind {
	case tokNum:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("formula %q: bad number %q", p.src, t.text)
		}
		p.next()
		return number(v), nil
	case tokIdent:
		p.next()
		if !p.seen[t.text] {
			p.seen[t.text] = true
			p.refs = append(p.refs, t.text)
		}
		return ref(t.text), nil
	case tokOp:
		switch t.text {
		case "-":
			p.next()
			x, err := p.factor()
			if err != nil {
				return nil, err
			}
			return neg{x: x}, nil
		case "(":
			p.next()
			x, err := p.expr()
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokOp || p.tok.text != ")" {
				return nil, fmt.Errorf("formula %q: missing ) at %d", p.src, p.tok.pos)
			}
			p.next()
			return x, nil
		}
	case tokEOF:
		return nil, fmt.Errorf("formula %q: unexpected end", p.src)
	}
	return nil, fmt.Errorf("formula %q: unexpected %q at %d", p.src, t.text, t.pos)
}

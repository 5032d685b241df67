// Package calc evaluates plain arithmetic expressions: numeric literals,
// the four binary operators, unary minus, and parentheses. It is a closed
// grammar over a tagged AST; there is no identifier, call, or code path of
// any kind, so untrusted input cannot reach an evaluator.
//
// Grammar:
//
//	expr   = term { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = number | "-" factor | "(" expr ")"
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrDivisionByZero is returned when evaluation divides by zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// Node is an arithmetic expression tree node.
type Node interface {
	eval() (float64, error)
}

type literal struct {
	value float64
}

type unary struct {
	op      byte
	operand Node
}

type binary struct {
	op          byte
	left, right Node
}

func (n literal) eval() (float64, error) { return n.value, nil }

func (n unary) eval() (float64, error) {
	v, err := n.operand.eval()
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (n binary) eval() (float64, error) {
	l, err := n.left.eval()
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval()
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	default:
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		return l / r, nil
	}
}

// maxNestingDepth bounds parser recursion so adversarial input (thousands of
// leading parentheses or minus signs) gets a parse error instead of blowing
// the goroutine stack.
const maxNestingDepth = 100

type parser struct {
	input string
	pos   int
	depth int
}

// Parse builds the AST for expr or reports the offending position.
func Parse(expr string) (Node, error) {
	p := &parser{input: expr}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	return node, nil
}

// Eval parses and evaluates expr.
func Eval(expr string) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, errors.New("empty expression")
	}
	node, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	return node.eval()
}

func (p *parser) parseExpr() (Node, error) {
	node, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp('+', '-')
		if !ok {
			return node, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		node = binary{op: op, left: node, right: right}
	}
}

func (p *parser) parseTerm() (Node, error) {
	node, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp('*', '/')
		if !ok {
			return node, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		node = binary{op: op, left: node, right: right}
	}
}

func (p *parser) parseFactor() (Node, error) {
	// every recursive production passes through here, so this one counter
	// bounds the whole parse
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNestingDepth {
		return nil, fmt.Errorf("expression nested deeper than %d levels", maxNestingDepth)
	}

	p.skipSpaces()
	if p.pos >= len(p.input) {
		return nil, errors.New("unexpected end of expression")
	}

	switch c := p.input[p.pos]; {
	case c == '-':
		p.pos++
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return unary{op: '-', operand: operand}, nil

	case c == '(':
		p.pos++
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpaces()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return nil, fmt.Errorf("missing closing parenthesis at position %d", p.pos)
		}
		p.pos++
		return node, nil

	case unicode.IsDigit(rune(c)) || c == '.':
		return p.parseNumber()

	default:
		return nil, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
	}
}

func (p *parser) parseNumber() (Node, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if unicode.IsDigit(rune(c)) || c == '.' {
			p.pos++
			continue
		}
		break
	}
	text := p.input[start:p.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q at position %d", text, start)
	}
	return literal{value: v}, nil
}

func (p *parser) peekOp(ops ...byte) (byte, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	for _, op := range ops {
		if p.input[p.pos] == op {
			return op, true
		}
	}
	return 0, false
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

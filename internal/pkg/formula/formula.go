// Package formula evaluates salary component formulas. The language is
// deliberately small: decimal literals, identifiers bound by the caller,
// + - * / and parentheses. No function calls, no host access of any kind.
package formula

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyFormula   = errors.New("formula is empty")
	ErrDivisionByZero = errors.New("division by zero in formula")
)

// UnknownVariableError is returned when a formula references an identifier
// the caller did not bind.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q in formula", e.Name)
}

// Vars binds identifiers to values. Lookup is case-insensitive; keys must be
// lowercase.
type Vars map[string]decimal.Decimal

// Eval evaluates expr against vars with full decimal precision. Rounding is
// the caller's concern.
func Eval(expr string, vars Vars) (decimal.Decimal, error) {
	p := &parser{input: expr, vars: vars}
	p.skipSpace()
	if p.pos >= len(p.input) {
		return decimal.Zero, ErrEmptyFormula
	}

	result, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, err
	}

	p.skipSpace()
	if p.pos < len(p.input) {
		return decimal.Zero, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	return result, nil
}

type parser struct {
	input string
	pos   int
	vars  Vars
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

// expr = term { ("+" | "-") term }
func (p *parser) parseExpr() (decimal.Decimal, error) {
	left, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++

		right, err := p.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

// term = unary { ("*" | "/") unary }
func (p *parser) parseTerm() (decimal.Decimal, error) {
	left, err := p.parseUnary()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++

		right, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '*' {
			left = left.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, ErrDivisionByZero
			}
			left = left.Div(right)
		}
	}
}

// unary = "-" unary | primary
func (p *parser) parseUnary() (decimal.Decimal, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	}
	return p.parsePrimary()
}

// primary = "(" expr ")" | number | identifier
func (p *parser) parsePrimary() (decimal.Decimal, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return decimal.Zero, errors.New("unexpected end of formula")
	}

	c := p.input[p.pos]
	switch {
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return decimal.Zero, fmt.Errorf("missing closing parenthesis at position %d", p.pos)
		}
		p.pos++
		return v, nil

	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()

	case isIdentStart(c):
		return p.parseIdentifier()

	default:
		return decimal.Zero, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
	}
}

func (p *parser) parseNumber() (decimal.Decimal, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}

	d, err := decimal.NewFromString(p.input[start:p.pos])
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q at position %d", p.input[start:p.pos], start)
	}
	return d, nil
}

func (p *parser) parseIdentifier() (decimal.Decimal, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
		p.pos++
	}

	name := strings.ToLower(p.input[start:p.pos])
	v, ok := p.vars[name]
	if !ok {
		return decimal.Zero, &UnknownVariableError{Name: name}
	}
	return v, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

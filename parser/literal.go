package parser

import (
	"strconv"
	"time"

	"go.yaml.in/yaml/v4"
)

// LiteralKind is the dynamic type of a Literal.
type LiteralKind uint8

// Literal kinds. Mappings and sequences are LiteralUnsupported.
const (
	LiteralNull LiteralKind = iota
	LiteralString
	LiteralInteger
	LiteralFloat
	LiteralBoolean
	LiteralDate
	LiteralUnsupported
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralNull:
		return "null"
	case LiteralString:
		return "string"
	case LiteralInteger:
		return "integer"
	case LiteralFloat:
		return "float"
	case LiteralBoolean:
		return "boolean"
	case LiteralDate:
		return "date"
	case LiteralUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Literal is a scalar value found in an enum or a default.
type Literal struct {
	kind LiteralKind
	str  string
	num  int64
	flt  float64
	flag bool
	date time.Time
	// text is the value as written in the source.
	text string
}

// NullLiteral returns the null literal.
func NullLiteral() Literal { return Literal{kind: LiteralNull, text: "null"} }

// StringLiteral returns a string literal.
func StringLiteral(s string) Literal { return Literal{kind: LiteralString, str: s, text: s} }

// IntegerLiteral returns an integer literal.
func IntegerLiteral(i int64) Literal {
	return Literal{kind: LiteralInteger, num: i, text: strconv.FormatInt(i, 10)}
}

// FloatLiteral returns a floating point literal.
func FloatLiteral(f float64) Literal {
	return Literal{kind: LiteralFloat, flt: f, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// BooleanLiteral returns a boolean literal.
func BooleanLiteral(b bool) Literal {
	return Literal{kind: LiteralBoolean, flag: b, text: strconv.FormatBool(b)}
}

// DateLiteral returns a date literal.
func DateLiteral(t time.Time) Literal {
	return Literal{kind: LiteralDate, date: t, text: t.Format(time.RFC3339)}
}

// Kind returns the dynamic type of l.
func (l Literal) Kind() LiteralKind { return l.kind }

// StringValue returns the value of a string literal.
func (l Literal) StringValue() string { return l.str }

// IntegerValue returns the value of an integer literal.
func (l Literal) IntegerValue() int64 { return l.num }

// FloatValue returns the value of a float literal.
func (l Literal) FloatValue() float64 { return l.flt }

// BooleanValue returns the value of a boolean literal.
func (l Literal) BooleanValue() bool { return l.flag }

// DateValue returns the value of a date literal.
func (l Literal) DateValue() time.Time { return l.date }

// String returns the value as it reads in a message.
func (l Literal) String() string { return l.text }

// literalFromNode converts a raw node. It never fails: anything that is not a
// recognised scalar becomes LiteralUnsupported.
func literalFromNode(n *yaml.Node) Literal {
	n = resolveAlias(n)
	if n == nil {
		return NullLiteral()
	}
	if n.Kind != yaml.ScalarNode {
		return Literal{kind: LiteralUnsupported, text: n.Value}
	}
	switch n.ShortTag() {
	case "!!null":
		return NullLiteral()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return BooleanLiteral(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Literal{kind: LiteralInteger, num: i, text: n.Value}
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return Literal{kind: LiteralFloat, flt: f, text: n.Value}
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return Literal{kind: LiteralFloat, flt: f, text: n.Value}
		}
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err == nil {
			return Literal{kind: LiteralDate, date: t, text: n.Value}
		}
	}
	return StringLiteral(n.Value)
}

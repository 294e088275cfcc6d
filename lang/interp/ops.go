package interp

import (
	"fmt"
	"math"

	"github.com/wbrown/cycles/lang/ast"
	"github.com/wbrown/cycles/lang/parser"
)

// parseSource is the single seam through which this package depends on the
// parser.
func parseSource(source string) (*ast.Program, error) {
	return parser.Parse(source)
}

func asNumber(context string, v Value) (float64, error) {
	n, ok := v.(float64)
	if !ok {
		return 0, &TypeError{Message: fmt.Sprintf("%s: expected a number, got %s", context, Stringify(v))}
	}
	return n, nil
}

// evalPlus implements `+`: numeric addition, or string concatenation when
// either operand is a string (JS-like coercion, matching the language's
// console/string-facing ergonomics).
func evalPlus(l, r Value) (Value, error) {
	ln, lok := l.(float64)
	rn, rok := r.(float64)
	if lok && rok {
		return ln + rn, nil
	}
	_, lstr := l.(string)
	_, rstr := r.(string)
	if lstr || rstr {
		return Stringify(l) + Stringify(r), nil
	}
	return nil, &TypeError{Message: fmt.Sprintf("+: incompatible operands %s and %s", Stringify(l), Stringify(r))}
}

func evalArith(op string, l, r Value) (Value, error) {
	ln, err := asNumber("arithmetic", l)
	if err != nil {
		return nil, err
	}
	rn, err := asNumber("arithmetic", r)
	if err != nil {
		return nil, err
	}
	switch op {
	case "-":
		return ln - rn, nil
	case "*":
		return ln * rn, nil
	case "/":
		return ln / rn, nil
	case "%":
		return math.Mod(ln, rn), nil
	default:
		return nil, fmt.Errorf("cycles: internal error: unhandled arithmetic op %q", op)
	}
}

func evalCompare(op string, l, r Value) (Value, error) {
	ln, lok := l.(float64)
	rn, rok := r.(float64)
	if lok && rok {
		switch op {
		case "<":
			return ln < rn, nil
		case "<=":
			return ln <= rn, nil
		case ">":
			return ln > rn, nil
		case ">=":
			return ln >= rn, nil
		}
	}
	ls, lsok := l.(string)
	rs, rsok := r.(string)
	if lsok && rsok {
		switch op {
		case "<":
			return ls < rs, nil
		case "<=":
			return ls <= rs, nil
		case ">":
			return ls > rs, nil
		case ">=":
			return ls >= rs, nil
		}
	}
	return nil, &TypeError{Message: fmt.Sprintf("%s: incomparable operands %s and %s", op, Stringify(l), Stringify(r))}
}

func valueEqual(l, r Value) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}
	switch lv := l.(type) {
	case float64:
		rv, ok := r.(float64)
		return ok && lv == rv
	case string:
		rv, ok := r.(string)
		return ok && lv == rv
	case bool:
		rv, ok := r.(bool)
		return ok && lv == rv
	default:
		return l == r
	}
}

package expand

import (
	"fmt"
	"strconv"
	"strings"
)

// expandArithmetic replaces every $((expr)) span with its evaluated
// value. Variables inside the expression are expanded before
// evaluation. A bad expression reports a diagnostic and substitutes
// "0" so the command still runs; an unterminated $(( passes through
// literally.
func (e *Expander) expandArithmetic(s string) string {
	var out strings.Builder
	rest := s

	for {
		start := strings.Index(rest, "$((")
		if start < 0 {
			break
		}
		out.WriteString(rest[:start])
		after := rest[start+3:]

		end := strings.Index(after, "))")
		if end < 0 {
			out.WriteString("$((")
			rest = after
			continue
		}

		expr := e.expandVars(after[:end])
		if val, err := evalArith(expr); err != nil {
			fmt.Fprintf(e.Errw, "gsh: arithmetic: %v\n", err)
			out.WriteString("0")
		} else {
			out.WriteString(strconv.FormatInt(val, 10))
		}
		rest = after[end+2:]
	}

	out.WriteString(rest)
	return out.String()
}

// evalArith evaluates an integer expression with the usual precedence:
// unary +/- bind tightest, then * / %, then binary + -. Division and
// modulo by zero are errors.
func evalArith(expr string) (int64, error) {
	val, rest, err := parseAdditive(strings.TrimSpace(expr))
	if err != nil {
		return 0, err
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		return 0, fmt.Errorf("unexpected trailing content: %s", rest)
	}
	return val, nil
}

func parseAdditive(s string) (int64, string, error) {
	left, rest, err := parseMultiplicative(s)
	if err != nil {
		return 0, "", err
	}

	for {
		r := strings.TrimLeft(rest, " \t")
		var op byte
		if strings.HasPrefix(r, "+") {
			op = '+'
		} else if strings.HasPrefix(r, "-") {
			op = '-'
		} else {
			return left, rest, nil
		}

		right, newRest, err := parseMultiplicative(strings.TrimLeft(r[1:], " \t"))
		if err != nil {
			return 0, "", err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
		rest = newRest
	}
}

func parseMultiplicative(s string) (int64, string, error) {
	left, rest, err := parseUnary(s)
	if err != nil {
		return 0, "", err
	}

	for {
		r := strings.TrimLeft(rest, " \t")
		var op byte
		switch {
		case strings.HasPrefix(r, "*"):
			op = '*'
		case strings.HasPrefix(r, "/"):
			op = '/'
		case strings.HasPrefix(r, "%"):
			op = '%'
		default:
			return left, rest, nil
		}

		right, newRest, err := parseUnary(strings.TrimLeft(r[1:], " \t"))
		if err != nil {
			return 0, "", err
		}
		switch op {
		case '*':
			left *= right
		case '/':
			if right == 0 {
				return 0, "", fmt.Errorf("division by zero")
			}
			left /= right
		case '%':
			if right == 0 {
				return 0, "", fmt.Errorf("modulo by zero")
			}
			left %= right
		}
		rest = newRest
	}
}

func parseUnary(s string) (int64, string, error) {
	s = strings.TrimLeft(s, " \t")
	if strings.HasPrefix(s, "-") {
		val, rest, err := parsePrimary(strings.TrimLeft(s[1:], " \t"))
		return -val, rest, err
	}
	if strings.HasPrefix(s, "+") {
		return parsePrimary(strings.TrimLeft(s[1:], " \t"))
	}
	return parsePrimary(s)
}

func parsePrimary(s string) (int64, string, error) {
	s = strings.TrimLeft(s, " \t")

	if strings.HasPrefix(s, "(") {
		val, rest, err := parseAdditive(strings.TrimLeft(s[1:], " \t"))
		if err != nil {
			return 0, "", err
		}
		rest = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(rest, ")") {
			return 0, "", fmt.Errorf("expected closing )")
		}
		return val, rest[1:], nil
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, "", fmt.Errorf("expected number, got: %s", s)
	}
	val, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, "", err
	}
	return val, s[end:], nil
}

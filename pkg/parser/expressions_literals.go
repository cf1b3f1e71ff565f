package parser

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"dsaviz/interpreter-go/pkg/ast"
)

func parseNumberLiteral(node *sitter.Node, source []byte) (ast.Expression, error) {
	raw := sliceContent(node, source)
	value, err := parseNumberText(raw)
	if err != nil {
		return nil, wrapParseError(node, err)
	}
	return annotateExpression(ast.NewNumberLiteral(value, raw), node), nil
}

func parseNumberText(raw string) (float64, error) {
	text := strings.ReplaceAll(raw, "_", "")
	if strings.HasSuffix(text, "n") {
		return 0, fmt.Errorf("parser: unsupported bigint literal %s", raw)
	}
	if len(text) > 2 && text[0] == '0' {
		base := 0
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(text[2:], base)
			if !ok {
				return 0, fmt.Errorf("parser: invalid number literal %s", raw)
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return f, nil
		}
		return 0, fmt.Errorf("parser: invalid number literal %s", raw)
	}
	return f, nil
}

func parseStringLiteral(node *sitter.Node, source []byte) (ast.Expression, error) {
	raw := sliceContent(node, source)
	if len(raw) < 2 {
		return nil, fmt.Errorf("parser: malformed string literal")
	}
	return annotateExpression(ast.Str(decodeEscapes(raw[1:len(raw)-1])), node), nil
}

func parseTemplateString(node *sitter.Node, source []byte) (ast.Expression, error) {
	start := int(node.StartByte())
	end := int(node.EndByte())
	if end-start < 2 || end > len(source) {
		return nil, fmt.Errorf("parser: malformed template literal")
	}

	var (
		quasis []string
		exprs  []ast.Expression
		cursor = start + 1
	)
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() != "template_substitution" {
			continue
		}
		quasis = append(quasis, decodeEscapes(string(source[cursor:int(child.StartByte())])))
		expr, err := parseExpressionList(firstNamedChild(child), source)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		cursor = int(child.EndByte())
	}
	quasis = append(quasis, decodeEscapes(string(source[cursor:end-1])))
	return annotateExpression(ast.NewTemplateLiteral(quasis, exprs), node), nil
}

// parseArrayLiteral keeps holes as nil elements; tree-sitter only exposes
// them as consecutive commas.
func parseArrayLiteral(node *sitter.Node, source []byte) (ast.Expression, error) {
	var elements []ast.Expression
	expectElem := true
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || isIgnorableNode(child) {
			continue
		}
		switch child.Kind() {
		case "[", "]":
			continue
		case ",":
			if expectElem {
				elements = append(elements, nil)
			}
			expectElem = true
			continue
		}
		if !child.IsNamed() {
			continue
		}
		elem, err := parseExpression(child, source)
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
		expectElem = false
	}
	if elements == nil {
		elements = []ast.Expression{}
	}
	return annotateExpression(ast.NewArrayLiteral(elements), node), nil
}

// decodeEscapes cooks the body of a string or template literal.
func decodeEscapes(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var b strings.Builder
	var pending rune = -1
	flush := func() {
		if pending >= 0 {
			b.WriteRune(utf8.RuneError)
			pending = -1
		}
	}
	writeUnit := func(u rune) {
		if utf16.IsSurrogate(u) {
			if pending >= 0 && u >= 0xDC00 {
				b.WriteRune(utf16.DecodeRune(pending, u))
				pending = -1
				return
			}
			flush()
			if u < 0xDC00 {
				pending = u
				return
			}
			b.WriteRune(utf8.RuneError)
			return
		}
		flush()
		b.WriteRune(u)
	}

	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			flush()
			r, size := utf8.DecodeRuneInString(raw[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		next := raw[i+1]
		i += 2
		switch next {
		case 'n':
			writeUnit('\n')
		case 't':
			writeUnit('\t')
		case 'r':
			writeUnit('\r')
		case 'b':
			writeUnit('\b')
		case 'f':
			writeUnit('\f')
		case 'v':
			writeUnit('\v')
		case '0':
			writeUnit(0)
		case '\n':
		case '\r':
			if i < len(raw) && raw[i] == '\n' {
				i++
			}
		case 'x':
			if i+2 <= len(raw) {
				if v, err := strconv.ParseUint(raw[i:i+2], 16, 32); err == nil {
					writeUnit(rune(v))
					i += 2
					continue
				}
			}
			writeUnit('x')
		case 'u':
			if i < len(raw) && raw[i] == '{' {
				if end := strings.IndexByte(raw[i:], '}'); end > 0 {
					if v, err := strconv.ParseUint(raw[i+1:i+end], 16, 32); err == nil && v <= utf8.MaxRune {
						writeUnit(rune(v))
						i += end + 1
						continue
					}
				}
			} else if i+4 <= len(raw) {
				if v, err := strconv.ParseUint(raw[i:i+4], 16, 32); err == nil {
					writeUnit(rune(v))
					i += 4
					continue
				}
			}
			writeUnit('u')
		default:
			r, size := utf8.DecodeRuneInString(raw[i-1:])
			writeUnit(r)
			i += size - 1
		}
	}
	flush()
	return b.String()
}

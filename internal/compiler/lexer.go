package compiler

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokString
	tokLBrack
	tokRBrack
	tokComma
	tokEq
	tokArrow
)

func (k tokenKind) String() string {
	switch k {
	case tokWord:
		return "word"
	case tokString:
		return "string"
	case tokLBrack:
		return "'['"
	case tokRBrack:
		return "']'"
	case tokComma:
		return "','"
	case tokEq:
		return "'='"
	case tokArrow:
		return "'->'"
	}
	return "?"
}

type token struct {
	kind tokenKind
	text string
}

// keyword reports whether t is the unquoted word w.
func (t token) keyword(w string) bool {
	return t.kind == tokWord && t.text == w
}

// name reports whether t can name an automaton or a local state.
func (t token) name() bool {
	return t.kind == tokWord || t.kind == tokString
}

func isWordRune(r rune) bool {
	return r == '_' || r == '\'' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// stripComments blanks every (** ... **) block, keeping newlines so line
// numbers survive.
func stripComments(src string) (string, error) {
	var sb strings.Builder
	for {
		start := strings.Index(src, "(**")
		if start < 0 {
			sb.WriteString(src)
			return sb.String(), nil
		}
		end := strings.Index(src[start+3:], "**)")
		if end < 0 {
			line := strings.Count(sb.String()+src[:start], "\n") + 1
			return "", &ParseError{Line: line, Msg: "unterminated comment"}
		}
		end += start + 3
		sb.WriteString(src[:start])
		for _, r := range src[start : end+3] {
			if r == '\n' {
				sb.WriteRune('\n')
			}
		}
		src = src[end+3:]
	}
}

// tokenize splits one line into tokens.
func tokenize(line string) ([]token, error) {
	var toks []token
	rs := []rune(line)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '[':
			toks = append(toks, token{tokLBrack, "["})
			i++
		case r == ']':
			toks = append(toks, token{tokRBrack, "]"})
			i++
		case r == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case r == '=':
			toks = append(toks, token{tokEq, "="})
			i++
		case r == '-' && i+1 < len(rs) && rs[i+1] == '>':
			toks = append(toks, token{tokArrow, "->"})
			i += 2
		case r == '"':
			j := i + 1
			for j < len(rs) && rs[j] != '"' {
				j++
			}
			if j == len(rs) {
				return nil, fmt.Errorf("unterminated string")
			}
			toks = append(toks, token{tokString, string(rs[i+1 : j])})
			i = j + 1
		case isWordRune(r):
			j := i
			for j < len(rs) && isWordRune(rs[j]) {
				j++
			}
			toks = append(toks, token{tokWord, string(rs[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", r)
		}
	}
	return toks, nil
}

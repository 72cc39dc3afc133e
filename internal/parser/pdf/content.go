package pdf

import (
	"strconv"
	"strings"
)

// kerningSpace is the TJ adjustment (thousandths of a unit) treated as a word gap
const kerningSpace = -200

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokName
	tokOperator
	tokArray
	tokOther
)

type token struct {
	kind  tokenKind
	text  string
	items []token
}

func (t token) number() float64 {
	f, _ := strconv.ParseFloat(t.text, 64)
	return f
}

// ContentText lays out the text-showing operators of a page content stream as lines.
// Strings are decoded as single-byte text; composite fonts come out garbled.
func ContentText(content []byte) string {
	w := &lineWriter{}
	s := &scanner{data: content}

	var operands []token
	var array []token
	depth := 0

	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		switch {
		case tok.kind == tokOther && tok.text == "[":
			depth++
			array = nil
		case tok.kind == tokOther && tok.text == "]":
			if depth > 0 {
				depth--
				operands = append(operands, token{kind: tokArray, items: array})
			}
		case depth > 0:
			array = append(array, tok)
		case tok.kind == tokOperator:
			if tok.text == "ID" {
				s.skipInlineImage()
			} else {
				w.apply(tok.text, operands)
			}
			operands = operands[:0]
		default:
			operands = append(operands, tok)
		}
	}
	return w.String()
}

type lineWriter struct {
	lines []string
	cur   strings.Builder
	lastY float64
	hasY  bool
}

func (w *lineWriter) apply(op string, operands []token) {
	switch op {
	case "Tj":
		if s, ok := lastOf(operands, tokString); ok {
			w.show(s.text)
		}
	case "TJ":
		if a, ok := lastOf(operands, tokArray); ok {
			for _, item := range a.items {
				switch item.kind {
				case tokString:
					w.show(item.text)
				case tokNumber:
					if item.number() <= kerningSpace {
						w.space()
					}
				}
			}
		}
	case "'", `"`:
		w.newline()
		if s, ok := lastOf(operands, tokString); ok {
			w.show(s.text)
		}
	case "T*":
		w.newline()
	case "Td", "TD":
		if len(operands) >= 2 && operands[len(operands)-1].number() != 0 {
			w.newline()
		} else {
			w.space()
		}
	case "Tm":
		if len(operands) >= 6 {
			y := operands[5].number()
			if w.hasY && y != w.lastY {
				w.newline()
			} else {
				w.space()
			}
			w.lastY, w.hasY = y, true
		}
	}
}

func (w *lineWriter) show(s string) {
	w.cur.WriteString(s)
}

func (w *lineWriter) space() {
	if w.cur.Len() == 0 {
		return
	}
	if s := w.cur.String(); !strings.HasSuffix(s, " ") {
		w.cur.WriteByte(' ')
	}
}

func (w *lineWriter) newline() {
	if line := strings.TrimSpace(w.cur.String()); line != "" {
		w.lines = append(w.lines, line)
	}
	w.cur.Reset()
}

func (w *lineWriter) String() string {
	w.newline()
	return strings.Join(w.lines, "\n")
}

func lastOf(operands []token, kind tokenKind) (token, bool) {
	for i := len(operands) - 1; i >= 0; i-- {
		if operands[i].kind == kind {
			return operands[i], true
		}
	}
	return token{}, false
}

type scanner struct {
	data []byte
	pos  int
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (s *scanner) next() (token, bool) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isWhitespace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			s.pos++
			return token{kind: tokString, text: s.literal()}, true
		case c == '<':
			if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
				s.pos += 2
				return token{kind: tokOther, text: "<<"}, true
			}
			s.pos++
			return token{kind: tokString, text: s.hex()}, true
		case c == '>':
			s.pos++
			if s.pos < len(s.data) && s.data[s.pos] == '>' {
				s.pos++
			}
			return token{kind: tokOther, text: ">>"}, true
		case c == '[' || c == ']' || c == '{' || c == '}':
			s.pos++
			return token{kind: tokOther, text: string(c)}, true
		case c == '/':
			s.pos++
			return token{kind: tokName, text: s.word()}, true
		default:
			w := s.word()
			if w == "" {
				s.pos++
				continue
			}
			if _, err := strconv.ParseFloat(w, 64); err == nil {
				return token{kind: tokNumber, text: w}, true
			}
			return token{kind: tokOperator, text: w}, true
		}
	}
	return token{}, false
}

func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.data) && !isWhitespace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literal reads a (...) string body; the opening parenthesis is already consumed
func (s *scanner) literal() string {
	var out []byte
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return decodeBytes(out)
			}
			out = append(out, c)
		case '\\':
			if s.pos >= len(s.data) {
				break
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b', 'f':
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						v = v*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return decodeBytes(out)
}

// hex reads a <...> string body; the opening bracket is already consumed
func (s *scanner) hex() string {
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if c := s.data[s.pos]; !isWhitespace(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return decodeBytes(out)
}

// skipInlineImage moves past binary inline image data up to the EI operator
func (s *scanner) skipInlineImage() {
	for s.pos+2 <= len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' &&
			(s.pos == 0 || isWhitespace(s.data[s.pos-1])) &&
			(s.pos+2 == len(s.data) || isWhitespace(s.data[s.pos+2])) {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}

// decodeBytes maps single-byte text to runes, keeping the euro sign of WinAnsi
func decodeBytes(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		switch {
		case c == 0x80:
			sb.WriteRune('€')
		case c == '\t':
			sb.WriteByte(' ')
		case c < 0x20 || c == 0x7f:
		default:
			sb.WriteRune(rune(c))
		}
	}
	return sb.String()
}

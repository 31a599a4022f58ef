package engine

import "strings"

// preprocessSource rewrites structview script source into something zygomys
// reads:
//
//   - :span becomes the string "__kw_span", so option names never collide
//     with user bindings.
//   - rotate-plane becomes rotate_plane. A hyphen only joins two words when
//     it sits between an identifier character and a letter, so (- 10 5) and
//     -2.5 pass through.
//   - ; and ;; line comments become // comments.
//
// String literals ("..." and `...`) are copied untouched.
func preprocessSource(source string) string {
	r := rewriter{src: source}
	r.out.Grow(len(source) + len(source)/4)
	for r.pos < len(r.src) {
		switch c := r.src[r.pos]; {
		case c == '"':
			r.quoted('"', true)
		case c == '`':
			r.quoted('`', false)
		case c == ';':
			r.comment()
		case c == ':' && r.peek(1) == '=':
			r.copy(2)
		case c == ':' && isLetter(r.peek(1)):
			r.keyword()
		case c == '-' && r.joinsWords():
			r.out.WriteByte('_')
			r.pos++
		default:
			r.copy(1)
		}
	}
	return r.out.String()
}

type rewriter struct {
	src string
	pos int
	out strings.Builder
}

// peek returns the byte n positions ahead, or 0 past the end.
func (r *rewriter) peek(n int) byte {
	if r.pos+n < len(r.src) {
		return r.src[r.pos+n]
	}
	return 0
}

func (r *rewriter) copy(n int) {
	end := min(r.pos+n, len(r.src))
	r.out.WriteString(r.src[r.pos:end])
	r.pos = end
}

// quoted copies a literal up to and including its closing delimiter.
func (r *rewriter) quoted(delim byte, escapes bool) {
	end := r.pos + 1
	for end < len(r.src) && r.src[end] != delim {
		if escapes && r.src[end] == '\\' {
			end++
		}
		end++
	}
	r.copy(end + 1 - r.pos)
}

func (r *rewriter) comment() {
	for r.pos < len(r.src) && r.src[r.pos] == ';' {
		r.pos++
	}
	r.out.WriteString("//")
	end := strings.IndexByte(r.src[r.pos:], '\n')
	if end < 0 {
		end = len(r.src) - r.pos
	}
	r.copy(end)
}

func (r *rewriter) keyword() {
	end := r.pos + 1
	for end < len(r.src) && isKWChar(r.src[end]) {
		end++
	}
	r.out.WriteByte('"')
	r.out.WriteString(kwPrefix)
	r.out.WriteString(r.src[r.pos+1 : end])
	r.out.WriteByte('"')
	r.pos = end
}

func (r *rewriter) joinsWords() bool {
	return r.pos > 0 && isIdentChar(r.src[r.pos-1]) && isLetter(r.peek(1))
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

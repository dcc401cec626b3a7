package engine

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites scene source before zygomys reads it:
//
//   - :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and never clash with user variables.
//   - kebab-case identifiers become snake_case (rounded-box -> rounded_box);
//     zygomys reads a hyphen inside a symbol as subtraction.
//   - ; line comments become // comments.
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocessSource(source string) string {
	p := &preprocessor{src: []byte(source), out: make([]byte, 0, len(source)+len(source)/4)}
	for p.i < len(p.src) {
		c := p.src[p.i]
		switch {
		case c == '"':
			p.quoted('"', true)
		case c == '`':
			p.quoted('`', false)
		case c == ';':
			p.comment()
		case c == ':' && p.peek() == '=':
			p.emit(2)
		case c == ':' && isLetter(p.peek()):
			p.keyword()
		case c == '-' && p.i > 0 && isIdentChar(p.src[p.i-1]) && isLetter(p.peek()):
			p.out = append(p.out, '_')
			p.i++
		default:
			p.emit(1)
		}
	}
	return string(p.out)
}

type preprocessor struct {
	src []byte
	out []byte
	i   int
}

func (p *preprocessor) peek() byte {
	if p.i+1 < len(p.src) {
		return p.src[p.i+1]
	}
	return 0
}

// emit copies n bytes through.
func (p *preprocessor) emit(n int) {
	end := min(p.i+n, len(p.src))
	p.out = append(p.out, p.src[p.i:end]...)
	p.i = end
}

func (p *preprocessor) quoted(q byte, escapes bool) {
	p.emit(1)
	for p.i < len(p.src) && p.src[p.i] != q {
		if escapes && p.src[p.i] == '\\' {
			p.emit(2)
			continue
		}
		p.emit(1)
	}
	p.emit(1)
}

func (p *preprocessor) comment() {
	p.out = append(p.out, '/', '/')
	for p.i < len(p.src) && p.src[p.i] == ';' {
		p.i++
	}
	for p.i < len(p.src) && p.src[p.i] != '\n' {
		p.emit(1)
	}
}

func (p *preprocessor) keyword() {
	j := p.i + 1
	for j < len(p.src) && isKWChar(p.src[j]) {
		j++
	}
	p.out = append(p.out, '"')
	p.out = append(p.out, kwPrefix...)
	p.out = append(p.out, p.src[p.i+1:j]...)
	p.out = append(p.out, '"')
	p.i = j
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

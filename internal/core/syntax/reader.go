package syntax

import "unicode/utf8"

// Position is a cursor location. Line and Col are 1-based, Offset is the
// byte offset into the text.
type Position struct {
	Line   int `json:"line"`
	Col    int `json:"col"`
	Offset int `json:"offset"`
}

// Reader is a forward-only cursor over an immutable text. None of its
// methods fail: reads past the end return an empty string.
type Reader struct {
	text string
	pos  Position
}

// NewReader creates a reader positioned at the start of text.
func NewReader(text string) *Reader {
	return &Reader{
		text: text,
		pos:  Position{Line: 1, Col: 1},
	}
}

// Text returns the full text being read.
func (r *Reader) Text() string {
	return r.text
}

// Position returns the current cursor position.
func (r *Reader) Position() Position {
	return r.pos
}

// Remaining returns the unread part of the text.
func (r *Reader) Remaining() string {
	return r.text[r.pos.Offset:]
}

// IsEnd reports whether the whole text was consumed.
func (r *Reader) IsEnd() bool {
	return r.pos.Offset >= len(r.text)
}

// Read consumes up to n characters and returns them.
func (r *Reader) Read(n int) string {
	start := r.pos.Offset
	for ; n > 0; n-- {
		if !r.readChar() {
			break
		}
	}
	return r.text[start:r.pos.Offset]
}

// Peek returns up to n characters without consuming them.
func (r *Reader) Peek(n int) string {
	end := r.pos.Offset
	for ; n > 0 && end < len(r.text); n-- {
		_, size := utf8.DecodeRuneInString(r.text[end:])
		end += size
	}
	return r.text[r.pos.Offset:end]
}

// ReadOne consumes the longest of words found at the cursor. Ties are broken
// by the order of words.
func (r *Reader) ReadOne(words ...string) (string, bool) {
	w := r.match(r.pos.Offset, words)
	if w == "" {
		return "", false
	}
	r.advance(len(w))
	return w, true
}

// PeekOne is ReadOne without consuming.
func (r *Reader) PeekOne(words ...string) (string, bool) {
	w := r.match(r.pos.Offset, words)
	return w, w != ""
}

// ReadMany greedily consumes a run of any of words.
func (r *Reader) ReadMany(words ...string) string {
	start := r.pos.Offset
	for !r.IsEnd() {
		w := r.match(r.pos.Offset, words)
		if w == "" {
			break
		}
		r.advance(len(w))
	}
	return r.text[start:r.pos.Offset]
}

// PeekMany is ReadMany without consuming.
func (r *Reader) PeekMany(words ...string) string {
	end := r.pos.Offset
	for end < len(r.text) {
		w := r.match(end, words)
		if w == "" {
			break
		}
		end += len(w)
	}
	return r.text[r.pos.Offset:end]
}

// ReadUntil consumes text up to, not including, the first occurrence of any
// of words, or to the end of the text.
func (r *Reader) ReadUntil(words ...string) string {
	start := r.pos.Offset
	for !r.IsEnd() && r.match(r.pos.Offset, words) == "" {
		r.readChar()
	}
	return r.text[start:r.pos.Offset]
}

// PeekUntil is ReadUntil without consuming.
func (r *Reader) PeekUntil(words ...string) string {
	end := r.pos.Offset
	for end < len(r.text) && r.match(end, words) == "" {
		_, size := utf8.DecodeRuneInString(r.text[end:])
		end += size
	}
	return r.text[r.pos.Offset:end]
}

func (r *Reader) match(offset int, words []string) string {
	found := ""
	rest := r.text[offset:]
	for _, w := range words {
		if len(w) > len(found) && len(w) <= len(rest) && rest[:len(w)] == w {
			found = w
		}
	}
	return found
}

// advance consumes characters until n bytes were read.
func (r *Reader) advance(n int) {
	target := r.pos.Offset + n
	for r.pos.Offset < target && r.readChar() {
	}
}

func (r *Reader) readChar() bool {
	if r.IsEnd() {
		return false
	}
	c, size := utf8.DecodeRuneInString(r.text[r.pos.Offset:])
	if c == '\n' {
		r.pos.Line++
		r.pos.Col = 1
	} else {
		r.pos.Col++
	}
	r.pos.Offset += size
	return true
}

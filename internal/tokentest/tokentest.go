// Package tokentest provides an in-memory token stream that stands in for
// the serialization engine in tests. It records writes as typed tokens and
// replays them to reads in order, the way the engine's paired writer and
// reader would.
package tokentest

import (
	"fmt"
	"reflect"
)

type tokenKind uint8

const (
	kindString tokenKind = iota
	kindBytes
	kindValue
)

func (k tokenKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindBytes:
		return "bytes"
	case kindValue:
		return "value"
	}
	return "unknown"
}

type token struct {
	kind  tokenKind
	value any
}

// A Stream collects written tokens and serves them back to a reader. It
// satisfies both the TokenWriter and TokenReader interfaces of the root
// package. The zero value is an empty stream ready for writing.
type Stream struct {
	tokens []token
	next   int
}

func (s *Stream) WriteString(value string) error {
	s.tokens = append(s.tokens, token{kind: kindString, value: value})
	return nil
}

func (s *Stream) WriteBytes(value []byte) error {
	s.tokens = append(s.tokens, token{kind: kindBytes, value: value})
	return nil
}

func (s *Stream) WriteValue(value any) error {
	s.tokens = append(s.tokens, token{kind: kindValue, value: value})
	return nil
}

func (s *Stream) ReadString() (string, error) {
	tok, err := s.read(kindString)
	if err != nil {
		return "", err
	}
	return tok.value.(string), nil
}

func (s *Stream) ReadBytes() ([]byte, error) {
	tok, err := s.read(kindBytes)
	if err != nil {
		return nil, err
	}
	return tok.value.([]byte), nil
}

func (s *Stream) ReadValue(_ reflect.Type) (any, error) {
	tok, err := s.read(kindValue)
	if err != nil {
		return nil, err
	}
	return tok.value, nil
}

// Len returns the number of tokens written so far.
func (s *Stream) Len() int { return len(s.tokens) }

// StringAt returns the string token at index i, so tests can assert on the
// exact wire content a serializer produced.
func (s *Stream) StringAt(i int) (string, bool) {
	if i >= len(s.tokens) || s.tokens[i].kind != kindString {
		return "", false
	}
	return s.tokens[i].value.(string), true
}

func (s *Stream) read(kind tokenKind) (token, error) {
	if s.next >= len(s.tokens) {
		return token{}, fmt.Errorf("tokentest: read past end of stream")
	}
	tok := s.tokens[s.next]
	if tok.kind != kind {
		return token{}, fmt.Errorf("tokentest: read %s token, next is %s", kind, tok.kind)
	}
	s.next++
	return tok, nil
}

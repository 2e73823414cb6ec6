package converter

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
)

// charset is a native character encoding.
type charset uint8

const (
	charsetUTF16 charset = iota
	charsetANSI
	charsetUTF8
)

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// unitSize is the width of one code unit and of the terminator.
func (c charset) unitSize() uint32 {
	if c == charsetUTF16 {
		return 2
	}
	return 1
}

func (c charset) encoding() encoding.Encoding {
	switch c {
	case charsetUTF16:
		return utf16LE
	case charsetANSI:
		return charmap.Windows1252
	}
	return encoding.Nop
}

// encode converts s to native bytes without a terminator. Unmappable or
// invalid input is an error; nothing is replaced silently.
func (c charset) encode(tag, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, errors.New(errors.PhaseMarshal, errors.KindConversionFailed).
			Tag(tag).
			GoType("string").
			Detail("string is not valid UTF-8").
			Build()
	}
	if c == charsetUTF8 {
		return []byte(s), nil
	}
	out, err := c.encoding().NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.New(errors.PhaseMarshal, errors.KindConversionFailed).
			Tag(tag).
			GoType("string").
			Cause(err).
			Detail("string has no %s representation", c).
			Build()
	}
	return out, nil
}

func (c charset) decode(b []byte) (string, error) {
	if c == charsetUTF8 {
		return string(b), nil
	}
	out, err := c.encoding().NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c charset) String() string {
	switch c {
	case charsetUTF16:
		return "UTF-16"
	case charsetANSI:
		return "ANSI"
	}
	return "UTF-8"
}

// terminated returns encoded s followed by a zero code unit.
func (c charset) terminated(tag, s string) ([]byte, error) {
	data, err := c.encode(tag, s)
	if err != nil {
		return nil, err
	}
	return append(data, make([]byte, c.unitSize())...), nil
}

// scan reads code units at addr up to the first zero unit or limit bytes.
func (c charset) scan(mem interop.Memory, addr, limit uint32) ([]byte, error) {
	var out []byte
	if c.unitSize() == 1 {
		for off := uint32(0); off < limit; off++ {
			b, err := mem.ReadU8(addr + off)
			if err != nil {
				return nil, err
			}
			if b == 0 {
				break
			}
			out = append(out, b)
		}
		return out, nil
	}
	for off := uint32(0); off+2 <= limit; off += 2 {
		u, err := mem.ReadU16(addr + off)
		if err != nil {
			return nil, err
		}
		if u == 0 {
			break
		}
		out = append(out, byte(u), byte(u>>8))
	}
	return out, nil
}

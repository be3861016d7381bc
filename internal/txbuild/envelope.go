package txbuild

import (
	"bytes"
	"encoding/binary"

	"github.com/onirigin/originals-engine/internal/enginerr"
)

// Envelope is the inscription content wrapped for the reveal witness:
// content type, optional metadata, optional pointer, and the content body
// itself. Encode/Decode form a deterministic binary round-trip independent
// of the taproot script encoding used to carry it on-chain.
type Envelope struct {
	ContentType string
	Metadata    []byte
	Pointer     *int64
	Content     []byte
}

const (
	tagContentType byte = 0x01
	tagMetadata    byte = 0x02
	tagPointer     byte = 0x03
	tagContent     byte = 0x04
)

func putField(buf *bytes.Buffer, tag byte, data []byte) {
	buf.WriteByte(tag)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf.Write(lenBuf[:])
	buf.Write(data)
}

// Encode produces a deterministic binary encoding of the envelope.
func (e Envelope) Encode() []byte {
	var buf bytes.Buffer
	putField(&buf, tagContentType, []byte(e.ContentType))
	if e.Metadata != nil {
		putField(&buf, tagMetadata, e.Metadata)
	}
	if e.Pointer != nil {
		var p [8]byte
		binary.BigEndian.PutUint64(p[:], uint64(*e.Pointer))
		putField(&buf, tagPointer, p[:])
	}
	putField(&buf, tagContent, e.Content)
	return buf.Bytes()
}

// Decode parses the encoding produced by Encode.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	r := bytes.NewReader(data)
	for r.Len() > 0 {
		tag, err := r.ReadByte()
		if err != nil {
			return Envelope{}, enginerr.Wrap(enginerr.InvalidInput, "truncated envelope: reading tag", err)
		}
		var lenBuf [4]byte
		if _, err := readFull(r, lenBuf[:]); err != nil {
			return Envelope{}, enginerr.Wrap(enginerr.InvalidInput, "truncated envelope: reading length", err)
		}
		n := binary.BigEndian.Uint32(lenBuf[:])
		field := make([]byte, n)
		if _, err := readFull(r, field); err != nil {
			return Envelope{}, enginerr.Wrap(enginerr.InvalidInput, "truncated envelope: reading field", err)
		}
		switch tag {
		case tagContentType:
			env.ContentType = string(field)
		case tagMetadata:
			env.Metadata = field
		case tagPointer:
			if len(field) != 8 {
				return Envelope{}, enginerr.New(enginerr.InvalidInput, "malformed pointer field")
			}
			p := int64(binary.BigEndian.Uint64(field))
			env.Pointer = &p
		case tagContent:
			env.Content = field
		default:
			return Envelope{}, enginerr.Newf(enginerr.InvalidInput, "unrecognized envelope tag %d", tag)
		}
	}
	return env, nil
}

func readFull(r *bytes.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		k, err := r.Read(buf[n:])
		n += k
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

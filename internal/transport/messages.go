package transport

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of videoproc.proto.
const (
	chunkVideoID  protowire.Number = 1
	chunkFilename protowire.Number = 2
	chunkData     protowire.Number = 3

	respVideoID protowire.Number = 1
	respSummary protowire.Number = 2
	respError   protowire.Number = 3
	respStatus  protowire.Number = 4
)

// VideoChunk is one message of the ProcessVideo upload stream.
type VideoChunk struct {
	VideoID  string
	Filename string
	Data     []byte
}

// ProcessResponse is the single reply of ProcessVideo.
type ProcessResponse struct {
	VideoID string
	Summary string
	Error   string
	Status  string
}

// wireMessage is implemented by the hand-encoded videoproc messages.
type wireMessage interface {
	marshalWire() []byte
	unmarshalWire(b []byte) error
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func (m *VideoChunk) marshalWire() []byte {
	var b []byte
	b = appendString(b, chunkVideoID, m.VideoID)
	b = appendString(b, chunkFilename, m.Filename)
	if len(m.Data) > 0 {
		b = protowire.AppendTag(b, chunkData, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Data)
	}
	return b
}

// unmarshalWire decodes b into m. Data is copied, since the transport reuses b.
func (m *VideoChunk) unmarshalWire(b []byte) error {
	*m = VideoChunk{}
	return consumeFields(b, func(num protowire.Number, v []byte) {
		switch num {
		case chunkVideoID:
			m.VideoID = string(v)
		case chunkFilename:
			m.Filename = string(v)
		case chunkData:
			m.Data = append([]byte(nil), v...)
		}
	})
}

func (m *ProcessResponse) marshalWire() []byte {
	var b []byte
	b = appendString(b, respVideoID, m.VideoID)
	b = appendString(b, respSummary, m.Summary)
	b = appendString(b, respError, m.Error)
	b = appendString(b, respStatus, m.Status)
	return b
}

func (m *ProcessResponse) unmarshalWire(b []byte) error {
	*m = ProcessResponse{}
	return consumeFields(b, func(num protowire.Number, v []byte) {
		switch num {
		case respVideoID:
			m.VideoID = string(v)
		case respSummary:
			m.Summary = string(v)
		case respError:
			m.Error = string(v)
		case respStatus:
			m.Status = string(v)
		}
	})
}

// consumeFields walks a message and hands every length-delimited field to set.
// Fields of other wire types are skipped, as unknown fields are.
func consumeFields(b []byte, set func(num protowire.Number, v []byte)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("decode tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("skip field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return fmt.Errorf("decode field %d: %w", num, protowire.ParseError(n))
		}
		set(num, v)
		b = b[n:]
	}
	return nil
}

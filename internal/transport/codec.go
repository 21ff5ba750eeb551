package transport

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
)

// codecName keeps the content-subtype of the stock protobuf codec, so clients
// generated from videoproc.proto talk to this server unchanged.
const codecName = "proto"

type wireCodec struct{}

// Codec returns the gRPC codec for the videoproc messages. Other protobuf messages
// (the health service) go through the regular proto marshaller.
func Codec() encoding.Codec {
	return wireCodec{}
}

func (wireCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case wireMessage:
		return m.marshalWire(), nil
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("transport: cannot marshal %T", v)
	}
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case wireMessage:
		return m.unmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("transport: cannot unmarshal into %T", v)
	}
}

func (wireCodec) Name() string {
	return codecName
}

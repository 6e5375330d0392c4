package grpcremote

import (
	"encoding/json"
)

// codecName is the content subtype negotiated on the wire.
const codecName = "json"

// jsonCodec carries messages as JSON, so the model types travel without a
// generated protobuf layer.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return codecName }

package subscription

import (
	"github.com/goccy/go-json"
)

// Decoder turns a message payload into a value.
type Decoder interface {
	Decode(data []byte, v any) error
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte, v any) error

// Decode calls f(data, v).
func (f DecoderFunc) Decode(data []byte, v any) error { return f(data, v) }

// JSONDecoder decodes JSON payloads.
type JSONDecoder struct{}

// Decode unmarshals data into v.
func (JSONDecoder) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

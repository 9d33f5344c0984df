// Package rpc serves and calls Connect procedures whose messages are plain Go
// structs encoded as JSON.
package rpc

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec replaces Connect's protojson codec under the "json" name so
// handlers and clients can exchange ordinary structs.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	// Connect clients send an empty body for empty messages.
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Codec returns the JSON codec.
func Codec() connect.Codec {
	return jsonCodec{}
}

// WithJSON registers the JSON codec on a handler or client.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

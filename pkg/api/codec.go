// Package api defines the wire messages of the billtracker RPC services.
//
// Messages are plain Go structs encoded as JSON. Connect handlers and
// clients built by package apiconnect install Codec, so both the Connect
// protocol and plain HTTP POSTs with Content-Type application/json work.
package api

import (
	"encoding/json"
	"fmt"
)

// Codec is the Connect codec for api messages.
type Codec struct{}

// CodecName is registered under the name Connect uses for JSON payloads.
const CodecName = "json"

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return nil
}

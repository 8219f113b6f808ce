package vocdrillv1connect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec marshals the plain Go messages of vocdrillv1 as JSON. It replaces connect's protobuf
// JSON codec under the same name, so clients send application/json and application/connect+json.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

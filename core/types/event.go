package types

// Event is a typed record of a state change produced by the auction engine.
// Attributes carry hex/decimal string encodings so events can be serialized
// without knowledge of the originating module.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

package socketmode

import "encoding/json"

// EnvelopeType discriminates the messages the platform sends over a Socket
// Mode connection.
type EnvelopeType string

const (
	// EnvelopeHello is sent once after the WebSocket upgrade completes.
	EnvelopeHello EnvelopeType = "hello"
	// EnvelopeDisconnect asks the client to drop and re-dial, typically
	// before a scheduled link refresh.
	EnvelopeDisconnect EnvelopeType = "disconnect"
	// EnvelopeEventsAPI wraps an Events API payload.
	EnvelopeEventsAPI EnvelopeType = "events_api"
	// EnvelopeInteractive wraps a user interaction (block actions, shortcuts,
	// view submissions).
	EnvelopeInteractive EnvelopeType = "interactive"
	// EnvelopeSlashCommands wraps a slash command invocation.
	EnvelopeSlashCommands EnvelopeType = "slash_commands"
)

// Envelope is one message received over a Socket Mode connection. Payload is
// left raw; its shape depends on Type and is decoded by the handler that
// cares about it.
type Envelope struct {
	Type                   EnvelopeType    `json:"type"`
	EnvelopeID             string          `json:"envelope_id,omitempty"`
	Payload                json.RawMessage `json:"payload,omitempty"`
	AcceptsResponsePayload bool            `json:"accepts_response_payload,omitempty"`
	RetryAttempt           int             `json:"retry_attempt,omitempty"`
	RetryReason            string          `json:"retry_reason,omitempty"`
}

// helloMessage is the full hello frame. Unlike event envelopes, hello and
// disconnect carry their fields at the top level rather than under payload.
type helloMessage struct {
	Type           string `json:"type"`
	NumConnections int    `json:"num_connections,omitempty"`
	ConnectionInfo struct {
		AppID string `json:"app_id,omitempty"`
	} `json:"connection_info,omitempty"`
	DebugInfo debugInfo `json:"debug_info,omitempty"`
}

// disconnectMessage explains why the server is asking the client to drop.
type disconnectMessage struct {
	Type      string    `json:"type"`
	Reason    string    `json:"reason,omitempty"`
	DebugInfo debugInfo `json:"debug_info,omitempty"`
}

type debugInfo struct {
	Host                      string `json:"host,omitempty"`
	BuildNumber               int    `json:"build_number,omitempty"`
	ApproximateConnectionTime int    `json:"approximate_connection_time,omitempty"`
}

// ack is the acknowledgment the client writes back for an envelope that
// carries an envelope_id.
type ack struct {
	EnvelopeID string `json:"envelope_id"`
	Payload    any    `json:"payload,omitempty"`
}

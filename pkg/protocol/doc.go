// Package protocol defines the messages exchanged with remote controls.
//
// Controls send requests (fernspielctl) to run a phonebook, reset the
// current one or dial. The runtime answers with a stream of event
// summaries (fernspielevt), each a YAML document.
package protocol

// Websocket subprotocols.
const (
	ControlProtocol = "fernspielctl"
	EventProtocol   = "fernspielevt"
)

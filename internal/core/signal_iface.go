package core

// Frame is a raw outbound payload (a JSON-encoded event).
type Frame []byte

// SignalConnection abstracts the messaging transport of one connected
// client. Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

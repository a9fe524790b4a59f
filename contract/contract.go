// Package contract defines the interfaces the discovery core consumes from
// its collaborators: the room transport and the cryptographic channel
// state machine. Neither is implemented here — both are owned by the
// embedding application.
package contract

// Identifier names a channel. Equality is byte equality; callers that need
// it as a map key should use string(id).
type Identifier []byte

// Sender is a room member's stable identifier, compared by byte equality
// against the transport's own notion of username.
type Sender string

// EventKind tags a RoomEvent's variant.
type EventKind int

const (
	EventMessage EventKind = iota
	EventJoin
	EventLeave
)

// RoomEvent is a tagged record of something observed on the room's shared
// broadcast log. Only Sender is populated for Join/Leave; Payload is only
// populated for Message.
type RoomEvent struct {
	Kind    EventKind
	Sender  Sender
	Payload []byte
}

func NewMessageEvent(sender Sender, payload []byte) RoomEvent {
	return RoomEvent{Kind: EventMessage, Sender: sender, Payload: payload}
}

func NewJoinEvent(sender Sender) RoomEvent {
	return RoomEvent{Kind: EventJoin, Sender: sender}
}

func NewLeaveEvent(sender Sender) RoomEvent {
	return RoomEvent{Kind: EventLeave, Sender: sender}
}

// RoomTransport is consumed from the Room: it broadcasts the search probe,
// reports the local username, and receives ownership of a channel once the
// discovery controller completes a join.
type RoomTransport interface {
	SendMessage(payload []byte) error
	Username() Sender
	JoinedChannel(handle ChannelHandle)
}

// ChannelHandle is the opaque, per-candidate cryptographic state machine.
// The discovery controller owns a handle exclusively until it either
// evicts it (Empty) or hands it to the Room (Joined).
type ChannelHandle interface {
	MessageReceived(sender Sender, payload []byte) error
	UserJoined(sender Sender)
	UserLeft(sender Sender)
	ConfirmParticipant(sender Sender)
	Join() error
	Empty() bool
	Joined() bool
}

// Package discovery turns a room's broadcast message stream into a set of
// candidate channels with a consistent view of membership, then joins one
// of them.
package discovery

import (
	"bytes"
	"encoding/json"
	"log/slog"

	discoveryerrors "github.com/mama165/otr-discovery/errors"

	"github.com/mama165/otr-discovery/contract"
	"github.com/mama165/otr-discovery/wire"
	"github.com/mama165/sdk-go/logs"
)

// Controller drives channel discovery for a single Room. It is not safe
// for concurrent use: the room transport is expected to deliver one event
// at a time and run each callback to completion before the next.
type Controller struct {
	log     *slog.Logger
	room    contract.RoomTransport
	factory HandleFactory
	session *session

	// nonceFunc is overridden in tests; defaults to generateNonce.
	nonceFunc func() ([]byte, error)
}

// NewController builds a Controller over the given room transport and
// handle factory. A nil logger falls back to
// logs.GetLoggerFromString("info").
func NewController(room contract.RoomTransport, factory HandleFactory, log *slog.Logger) *Controller {
	if log == nil {
		log = logs.GetLoggerFromString("info")
	}
	return &Controller{
		log:       log,
		room:      room,
		factory:   factory,
		session:   newSession(nil),
		nonceFunc: generateNonce,
	}
}

// Search begins a new discovery round: it discards any in-progress round
// (probe latch, event log, candidates, pending join) and broadcasts a
// fresh ChannelSearch probe. Calling it while a previous round's join is
// still pending abandons that join.
func (c *Controller) Search() error {
	nonce, err := c.nonceFunc()
	if err != nil {
		return err
	}
	c.session = newSession(nonce)
	c.log.Debug("discovery: starting search", "search_id", c.session.id)

	payload, err := wire.EncodeChannelSearch(wire.ChannelSearchMessage{Nonce: nonce})
	if err != nil {
		return err
	}
	return c.room.SendMessage(payload)
}

// JoinChannel selects a candidate by the public fingerprint of its
// identifier and requests that it join. Re-selecting while a previous
// selection is still pending handover returns ErrJoinInProgress instead
// of panicking, so the embedding application can decide how to handle its
// own bug.
func (c *Controller) JoinChannel(hexFingerprint string) error {
	if c.session.hasJoining {
		return discoveryerrors.ErrJoinInProgress
	}
	id, found := c.reg().findByFingerprint(hexFingerprint)
	if !found {
		c.log.Debug("discovery: join requested for unknown fingerprint", "fingerprint", hexFingerprint)
		return nil
	}
	handle, _ := c.reg().get(id)
	c.session.setJoining(id)
	return handle.Join()
}

// MessageReceived is a room event sink: the transport calls it for every
// inbound broadcast message.
func (c *Controller) MessageReceived(sender contract.Sender, payload []byte) error {
	return c.dispatch(contract.NewMessageEvent(sender, payload))
}

// UserJoined is a room event sink for membership joins.
func (c *Controller) UserJoined(sender contract.Sender) error {
	return c.dispatch(contract.NewJoinEvent(sender))
}

// UserLeft is a room event sink for membership departures.
func (c *Controller) UserLeft(sender contract.Sender) error {
	return c.dispatch(contract.NewLeaveEvent(sender))
}

// dispatch runs one RoomEvent through discovery: side effects first, then
// log accumulation, then forwarding to every live candidate with eviction
// of empties, then a join-handover check. Only events arriving after the
// probe latched are logged; the echo that fires the latch is not.
func (c *Controller) dispatch(ev contract.RoomEvent) error {
	wasObserved := c.session.probeObserved
	if ev.Kind == contract.EventMessage {
		c.applyDiscoveryRules(ev.Sender, ev.Payload)
	}

	if wasObserved {
		c.session.appendEvent(ev)
	}

	for _, key := range c.reg().snapshotKeys() {
		handle, ok := c.reg().get(contract.Identifier(key))
		if !ok {
			continue // evicted by an earlier step of this same pass
		}
		forwardEvent(handle, ev)
		if handle.Empty() {
			c.reg().evict(contract.Identifier(key))
		}
	}

	c.checkJoinHandover()
	return nil
}

// forwardEvent routes a RoomEvent to the matching ChannelHandle method by
// its actual variant.
func forwardEvent(handle contract.ChannelHandle, ev contract.RoomEvent) {
	switch ev.Kind {
	case contract.EventMessage:
		_ = handle.MessageReceived(ev.Sender, ev.Payload)
	case contract.EventJoin:
		handle.UserJoined(ev.Sender)
	case contract.EventLeave:
		handle.UserLeft(ev.Sender)
	}
}

// applyDiscoveryRules inspects a Message event's payload for one of the
// three discovery message kinds and performs the corresponding side
// effect. Malformed or unrecognized payloads are dropped silently: a
// regular encrypted channel message will never decode as one of these
// three kinds and simply falls through with no side effect.
func (c *Controller) applyDiscoveryRules(sender contract.Sender, payload []byte) {
	var envelope wire.Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return
	}
	switch envelope.Type {
	case wire.MsgChannelSearch:
		c.latchProbe(sender, payload)
	case wire.MsgChannelStatus:
		if !c.session.probeObserved {
			return
		}
		c.admitChannelStatus(sender, payload)
	case wire.MsgChannelAnnouncement:
		if !c.session.probeObserved {
			return
		}
		c.admitChannelAnnouncement(sender, payload)
	}
}

// latchProbe fires the one-shot probe latch iff the echoed sender is us
// and the nonce matches the one we drew for this round.
func (c *Controller) latchProbe(sender contract.Sender, payload []byte) {
	if c.session.probeObserved {
		return
	}
	msg, err := wire.DecodeChannelSearch(payload)
	if err != nil {
		c.log.Debug(discoveryerrors.ErrDecodeFailed.Error(), "kind", "channel_search", "err", err)
		return
	}
	if sender != c.room.Username() {
		return
	}
	if !bytes.Equal(msg.Nonce, c.session.nonce) {
		return
	}
	c.session.probeObserved = true
	c.log.Debug("discovery: probe observed", "search_id", c.session.id)
}

// admitChannelStatus admits a status message whose sender appears in
// either membership list, creating and replaying a new candidate on first
// sight of its channel id, and always confirming the sender against it.
func (c *Controller) admitChannelStatus(sender contract.Sender, payload []byte) {
	msg, err := wire.DecodeChannelStatus(payload)
	if err != nil {
		c.log.Debug(discoveryerrors.ErrDecodeFailed.Error(), "kind", "channel_status", "err", err)
		return
	}
	if !senderAdmitted(sender, msg.Participants, msg.UnauthorizedParticipants) {
		return
	}
	id := contract.Identifier(msg.ChannelID)
	if _, exists := c.reg().get(id); !exists {
		handle := c.factory.FromStatus(c.room, msg)
		c.replayInto(handle)
		c.reg().insert(id, handle)
		c.log.Info("discovery: candidate discovered", "fingerprint", Fingerprint(id))
	}
	handle, _ := c.reg().get(id)
	handle.ConfirmParticipant(sender)
}

// admitChannelAnnouncement admits an announcement message. The effective
// identifier is the partial identifier concatenated with the sender; a
// candidate founded this way starts from the announcement alone, with no
// event-log replay.
func (c *Controller) admitChannelAnnouncement(sender contract.Sender, payload []byte) {
	msg, err := wire.DecodeChannelAnnouncement(payload)
	if err != nil {
		c.log.Debug(discoveryerrors.ErrDecodeFailed.Error(), "kind", "channel_announcement", "err", err)
		return
	}
	id := effectiveAnnouncementID(msg.PartialID, sender)
	if _, exists := c.reg().get(id); !exists {
		handle := c.factory.FromAnnouncement(c.room, msg, sender)
		c.reg().insert(id, handle)
		c.log.Info("discovery: candidate discovered", "fingerprint", Fingerprint(id))
	}
	handle, _ := c.reg().get(id)
	handle.ConfirmParticipant(sender)
}

// replayInto feeds a freshly-created handle the entire current event log,
// in order, before it is inserted into the registry.
func (c *Controller) replayInto(handle contract.ChannelHandle) {
	for _, ev := range c.session.eventLog {
		forwardEvent(handle, ev)
	}
}

// checkJoinHandover hands the joining candidate to the room once it
// reports itself joined, and resets discovery state behind it.
func (c *Controller) checkJoinHandover() {
	if !c.session.hasJoining {
		return
	}
	handle, ok := c.reg().get(c.session.joiningIdentifier)
	if !ok || !handle.Joined() {
		return
	}
	c.reg().reset()
	c.session.clearJoining()
	c.room.JoinedChannel(handle)
}

func (c *Controller) reg() *registry {
	return c.session.registry
}

func senderAdmitted(sender contract.Sender, participants, unauthorized []string) bool {
	for _, p := range participants {
		if contract.Sender(p) == sender {
			return true
		}
	}
	for _, p := range unauthorized {
		if contract.Sender(p) == sender {
			return true
		}
	}
	return false
}

func effectiveAnnouncementID(partial []byte, sender contract.Sender) contract.Identifier {
	id := make([]byte, 0, len(partial)+len(sender))
	id = append(id, partial...)
	id = append(id, []byte(sender)...)
	return contract.Identifier(id)
}

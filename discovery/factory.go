package discovery

import (
	"github.com/mama165/otr-discovery/contract"
	"github.com/mama165/otr-discovery/wire"
)

// HandleFactory builds the opaque cryptographic ChannelHandle for a
// newly-discovered candidate: a status-evidence candidate is built from
// the status message alone, an announcement-evidence candidate
// additionally needs the sender since the effective identifier is
// payload||sender.
type HandleFactory interface {
	FromStatus(room contract.RoomTransport, msg wire.ChannelStatusMessage) contract.ChannelHandle
	FromAnnouncement(room contract.RoomTransport, msg wire.ChannelAnnouncementMessage, sender contract.Sender) contract.ChannelHandle
}

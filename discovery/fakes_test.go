package discovery

import (
	"github.com/mama165/otr-discovery/contract"
	"github.com/mama165/otr-discovery/wire"
)

// fakeHandle is a hand-written test double for contract.ChannelHandle. It
// records calls instead of asserting on them directly, so a test can
// inspect accumulated state after driving a sequence of events.
type fakeHandle struct {
	participants map[contract.Sender]bool
	messages     []contract.Sender
	joins        []contract.Sender
	leaves       []contract.Sender
	joinCalled   bool
	joinErr      error
	forceEmpty   bool
	forceJoined  *bool
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{participants: make(map[contract.Sender]bool)}
}

func (f *fakeHandle) MessageReceived(sender contract.Sender, payload []byte) error {
	f.messages = append(f.messages, sender)
	return nil
}

func (f *fakeHandle) UserJoined(sender contract.Sender) {
	f.joins = append(f.joins, sender)
}

func (f *fakeHandle) UserLeft(sender contract.Sender) {
	f.leaves = append(f.leaves, sender)
}

func (f *fakeHandle) ConfirmParticipant(sender contract.Sender) {
	f.participants[sender] = true
}

func (f *fakeHandle) Join() error {
	f.joinCalled = true
	return f.joinErr
}

func (f *fakeHandle) Empty() bool {
	if f.forceEmpty {
		return true
	}
	return len(f.participants) == 0
}

func (f *fakeHandle) Joined() bool {
	if f.forceJoined != nil {
		return *f.forceJoined
	}
	return f.joinCalled
}

// fakeRoom is a hand-written test double for contract.RoomTransport.
type fakeRoom struct {
	username   contract.Sender
	sent       [][]byte
	sendErr    error
	joinedWith contract.ChannelHandle
}

func (r *fakeRoom) SendMessage(payload []byte) error {
	r.sent = append(r.sent, payload)
	return r.sendErr
}

func (r *fakeRoom) Username() contract.Sender {
	return r.username
}

func (r *fakeRoom) JoinedChannel(handle contract.ChannelHandle) {
	r.joinedWith = handle
}

// fakeFactory hands out pre-built fakeHandle instances so a test can keep a
// reference to the exact handle a given status/announcement will produce.
// Each call consumes and clears the corresponding "next" field, falling
// back to a fresh fakeHandle if the test didn't preload one.
type fakeFactory struct {
	nextStatus        *fakeHandle
	nextAnnouncement  *fakeHandle
	statusCalls       []wire.ChannelStatusMessage
	announcementCalls []wire.ChannelAnnouncementMessage
}

func (f *fakeFactory) FromStatus(room contract.RoomTransport, msg wire.ChannelStatusMessage) contract.ChannelHandle {
	f.statusCalls = append(f.statusCalls, msg)
	h := f.nextStatus
	if h == nil {
		h = newFakeHandle()
	}
	f.nextStatus = nil
	return h
}

func (f *fakeFactory) FromAnnouncement(room contract.RoomTransport, msg wire.ChannelAnnouncementMessage, sender contract.Sender) contract.ChannelHandle {
	f.announcementCalls = append(f.announcementCalls, msg)
	h := f.nextAnnouncement
	if h == nil {
		h = newFakeHandle()
	}
	f.nextAnnouncement = nil
	return h
}

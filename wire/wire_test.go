package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelSearch_RoundTrips(t *testing.T) {
	req := require.New(t)
	want := ChannelSearchMessage{Nonce: []byte("a-nonce-of-some-length")}

	payload, err := EncodeChannelSearch(want)
	req.NoError(err)

	got, err := DecodeChannelSearch(payload)
	req.NoError(err)
	req.Equal(want, got)
}

func TestChannelSearch_RejectsMissingNonce(t *testing.T) {
	req := require.New(t)
	payload, err := EncodeChannelSearch(ChannelSearchMessage{})
	req.NoError(err)

	_, err = DecodeChannelSearch(payload)
	req.Error(err)
}

func TestChannelStatus_RoundTrips(t *testing.T) {
	req := require.New(t)
	want := ChannelStatusMessage{
		ChannelID:                []byte("channel-id"),
		Participants:             []string{"alice", "bob"},
		UnauthorizedParticipants: []string{"mallory"},
	}

	payload, err := EncodeChannelStatus(want)
	req.NoError(err)

	got, err := DecodeChannelStatus(payload)
	req.NoError(err)
	req.Equal(want, got)
}

func TestChannelAnnouncement_RoundTrips(t *testing.T) {
	req := require.New(t)
	want := ChannelAnnouncementMessage{PartialID: []byte("partial")}

	payload, err := EncodeChannelAnnouncement(want)
	req.NoError(err)

	got, err := DecodeChannelAnnouncement(payload)
	req.NoError(err)
	req.Equal(want, got)
}

func TestEnvelope_TypeSurvivesRoundTrip(t *testing.T) {
	req := require.New(t)
	payload, err := EncodeChannelStatus(ChannelStatusMessage{ChannelID: []byte("x")})
	req.NoError(err)

	var envelope Envelope
	req.NoError(json.Unmarshal(payload, &envelope))
	req.Equal(MsgChannelStatus, envelope.Type)
}

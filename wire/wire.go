// Package wire provides a concrete codec for the three discovery message
// kinds the controller consumes.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MsgType distinguishes the three discovery message kinds on top of the
// generic envelope any other room traffic travels in.
type MsgType string

const (
	MsgChannelSearch       MsgType = "channel_search"
	MsgChannelStatus       MsgType = "channel_status"
	MsgChannelAnnouncement MsgType = "channel_announcement"
)

// Envelope is the outermost shape every discovery message shares. Room
// traffic that isn't one of these three types is not this package's
// concern and is passed through by the caller untouched.
type Envelope struct {
	Type MsgType `json:"type" validate:"required"`
}

// ChannelSearchMessage is the probe broadcast by Search and its echo.
type ChannelSearchMessage struct {
	Nonce []byte `json:"nonce" validate:"required"`
}

func EncodeChannelSearch(m ChannelSearchMessage) ([]byte, error) {
	return json.Marshal(struct {
		Envelope
		ChannelSearchMessage
	}{Envelope{MsgChannelSearch}, m})
}

func DecodeChannelSearch(payload []byte) (ChannelSearchMessage, error) {
	var m ChannelSearchMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return ChannelSearchMessage{}, fmt.Errorf("decode channel search: %w", err)
	}
	if err := validate.Struct(m); err != nil {
		return ChannelSearchMessage{}, fmt.Errorf("decode channel search: %w", err)
	}
	return m, nil
}

// ChannelStatusMessage announces a channel's identifier and current
// membership view. This package only validates shape; admission into the
// registry is the controller's call.
type ChannelStatusMessage struct {
	ChannelID               []byte   `json:"channel_id" validate:"required"`
	Participants            []string `json:"participants"`
	UnauthorizedParticipants []string `json:"unauthorized_participants"`
}

func EncodeChannelStatus(m ChannelStatusMessage) ([]byte, error) {
	return json.Marshal(struct {
		Envelope
		ChannelStatusMessage
	}{Envelope{MsgChannelStatus}, m})
}

func DecodeChannelStatus(payload []byte) (ChannelStatusMessage, error) {
	var m ChannelStatusMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return ChannelStatusMessage{}, fmt.Errorf("decode channel status: %w", err)
	}
	if err := validate.Struct(m); err != nil {
		return ChannelStatusMessage{}, fmt.Errorf("decode channel status: %w", err)
	}
	return m, nil
}

// ChannelAnnouncementMessage carries a partial identifier; the effective
// identifier is PartialID concatenated with the sender.
type ChannelAnnouncementMessage struct {
	PartialID []byte `json:"partial_id" validate:"required"`
}

func EncodeChannelAnnouncement(m ChannelAnnouncementMessage) ([]byte, error) {
	return json.Marshal(struct {
		Envelope
		ChannelAnnouncementMessage
	}{Envelope{MsgChannelAnnouncement}, m})
}

func DecodeChannelAnnouncement(payload []byte) (ChannelAnnouncementMessage, error) {
	var m ChannelAnnouncementMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return ChannelAnnouncementMessage{}, fmt.Errorf("decode channel announcement: %w", err)
	}
	if err := validate.Struct(m); err != nil {
		return ChannelAnnouncementMessage{}, fmt.Errorf("decode channel announcement: %w", err)
	}
	return m, nil
}

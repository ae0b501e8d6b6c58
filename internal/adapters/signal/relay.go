package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avlowe/watchroom/internal/domain"
)

// Relay events pass through untouched apart from the sender tag; payload
// shape is the clients' business.

func (ctl *Controller) handleChat(cid domain.ConnectionID, data []byte) {
	var p struct {
		Room    domain.RoomCode `json:"room"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		return
	}

	ctl.broadcastRoom(p.Room, cid, struct {
		Type         string              `json:"type"`
		Message      json.RawMessage     `json:"message"`
		ConnectionID domain.ConnectionID `json:"connectionId"`
	}{"message", p.Message, cid})
}

func (ctl *Controller) handleVideo(cid domain.ConnectionID, data []byte) {
	var p struct {
		RoomCode domain.RoomCode `json:"roomCode"`
		State    json.RawMessage `json:"state"`
		Time     json.RawMessage `json:"time"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad video payload")
		return
	}

	ctl.broadcastRoom(p.RoomCode, cid, struct {
		Type         string              `json:"type"`
		State        json.RawMessage     `json:"state"`
		Time         json.RawMessage     `json:"time"`
		ConnectionID domain.ConnectionID `json:"connectionId"`
	}{"video", p.State, p.Time, cid})
}

func (ctl *Controller) handleUpdate(cid domain.ConnectionID, conn *wsConn, data []byte) {
	var p struct {
		Participant domain.ParticipantInfo `json:"participant"`
		RoomCode    domain.RoomCode        `json:"roomCode"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad update payload")
		ctl.sendError(conn, "bad payload")
		return
	}

	participant, ok := ctl.registry.Update(cid, p.Participant, p.RoomCode)
	if !ok {
		log.Debug().Str("module", "signal").Str("cid", string(cid)).Str("room", string(p.RoomCode)).Msg("update for unknown member")
		return
	}

	ctl.broadcastRoom(p.RoomCode, cid, struct {
		Type         string              `json:"type"`
		Participant  domain.Participant  `json:"participant"`
		ConnectionID domain.ConnectionID `json:"connectionId"`
	}{"update", participant, cid})
}

func (ctl *Controller) handleNewURL(cid domain.ConnectionID, data []byte) {
	var p struct {
		RoomCode domain.RoomCode `json:"roomCode"`
		URL      string          `json:"url"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad url payload")
		return
	}

	if !ctl.registry.SetURL(cid, p.RoomCode, p.URL) {
		log.Debug().Str("module", "signal").Str("room", string(p.RoomCode)).Msg("url change for unknown room")
		return
	}

	ctl.broadcastRoom(p.RoomCode, cid, struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	}{"new URL", p.URL})
}

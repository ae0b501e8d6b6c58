package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/avlowe/watchroom/internal/domain"
)

func (ctl *Controller) handleCreateRoom(cid domain.ConnectionID, conn *wsConn, data []byte) {
	var p struct {
		Participant domain.ParticipantInfo `json:"participant"`
		URL         string                 `json:"url"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create payload")
		ctl.sendError(conn, "bad payload")
		return
	}

	code := ctl.registry.Create(cid, p.Participant, p.URL)

	ctl.sendJSON(conn, struct {
		Type     string          `json:"type"`
		Status   string          `json:"status"`
		RoomCode domain.RoomCode `json:"roomCode"`
	}{"notification", "room created", code})
}

func (ctl *Controller) handleJoinRoom(cid domain.ConnectionID, conn *wsConn, data []byte) {
	var p struct {
		Participant domain.ParticipantInfo `json:"participant"`
		Code        domain.RoomCode        `json:"code"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad payload")
		return
	}

	snap, err := ctl.registry.Join(cid, p.Participant, p.Code)
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		ctl.sendError(conn, "Room doesn't exist")
		return
	case errors.Is(err, domain.ErrRoomFull):
		ctl.sendError(conn, "Room full")
		return
	case err != nil:
		ctl.sendError(conn, err.Error())
		return
	}

	ctl.sendJSON(conn, struct {
		Type     string              `json:"type"`
		Status   string              `json:"status"`
		RoomInfo domain.RoomSnapshot `json:"roomInfo"`
	}{"notification", "room joined", snap})

	ctl.broadcastRoom(p.Code, cid, struct {
		Type        string             `json:"type"`
		Status      string             `json:"status"`
		Participant domain.Participant `json:"participant"`
	}{"notification", "guest joined", domain.NewParticipant(cid, p.Participant, domain.RoleGuest)})
}

// handleDisconnect is the single teardown path for a dead socket. The kick
// handshake funnels into the same registry cleanup, so by the time a kicked
// connection's socket dies this is a no-op.
func (ctl *Controller) handleDisconnect(cid domain.ConnectionID, conn *wsConn) {
	res, ok := ctl.registry.Leave(cid)
	ctl.unbind(cid)
	conn.Close()
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("session closed")

	if !ok || res.RoomDestroyed {
		return
	}

	if res.WasPendingTransfer {
		// Mid-transfer departure reads as "still loading the new video",
		// not as leaving.
		ctl.broadcastRoom(res.Code, cid, struct {
			Type        string              `json:"type"`
			Status      string              `json:"status"`
			Participant domain.ConnectionID `json:"participant"`
		}{"notification", "loading new video", cid})
		return
	}

	ctl.broadcastRoom(res.Code, cid, struct {
		Type        string              `json:"type"`
		Status      string              `json:"status"`
		Participant domain.Participant  `json:"participant"`
		Host        domain.ConnectionID `json:"host"`
	}{"notification", "guest left", res.Departed, res.HostID})
}

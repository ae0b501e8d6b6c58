package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avlowe/watchroom/internal/domain"
)

// The kick protocol is a two-message handshake. Phase 1 relays the request
// to the room; the target's own client answers with a self-ack, and phase 2
// tears the target down through the same cleanup the disconnect path uses.
// There is no phase-2 deadline: a target that never acks stays registered
// until its socket dies.

func (ctl *Controller) handleKickParticipant(cid domain.ConnectionID, conn *wsConn, data []byte) {
	var p struct {
		RoomCode     domain.RoomCode     `json:"roomCode"`
		ConnectionID domain.ConnectionID `json:"connectionId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad kick payload")
		ctl.sendError(conn, "bad payload")
		return
	}

	log.Info().Str("module", "signal").Str("room", string(p.RoomCode)).Str("target", string(p.ConnectionID)).Msg("kick requested")
	ctl.broadcastRoom(p.RoomCode, cid, struct {
		Type         string              `json:"type"`
		ConnectionID domain.ConnectionID `json:"connectionId"`
	}{"kick request", p.ConnectionID})
}

func (ctl *Controller) handleKickAck(cid domain.ConnectionID, conn *wsConn) {
	res, ok := ctl.registry.Leave(cid)
	if ok && !res.RoomDestroyed {
		ctl.broadcastRoom(res.Code, cid, struct {
			Type        string              `json:"type"`
			Status      string              `json:"status"`
			Participant domain.Participant  `json:"participant"`
			Host        domain.ConnectionID `json:"host"`
		}{"notification", "guest was kicked", res.Departed, res.HostID})
	}

	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("participant kicked")
	ctl.unbind(cid)
	conn.Close()
}

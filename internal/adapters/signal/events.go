package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avlowe/watchroom/internal/domain"
)

// eventKind is the closed set of inbound session events. Wire-level type
// strings map through eventKinds exactly once, at decode time; everything
// downstream switches on the enum.
type eventKind int

const (
	evUnknown eventKind = iota
	evCreateRoom
	evJoinRoom
	evChat
	evVideo
	evUpdate
	evNewURL
	evKickParticipant
	evKickSelfAck
)

var eventKinds = map[string]eventKind{
	"create room":      evCreateRoom,
	"join room":        evJoinRoom,
	"message":          evChat,
	"video":            evVideo,
	"update":           evUpdate,
	"new URL":          evNewURL,
	"kick participant": evKickParticipant,
	"kick self-ack":    evKickSelfAck,
}

func (ctl *Controller) dispatch(cid domain.ConnectionID, conn *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("bad event json")
		ctl.sendError(conn, "bad payload")
		return
	}

	switch eventKinds[env.Type] {
	case evCreateRoom:
		ctl.handleCreateRoom(cid, conn, data)
	case evJoinRoom:
		ctl.handleJoinRoom(cid, conn, data)
	case evChat:
		ctl.handleChat(cid, data)
	case evVideo:
		ctl.handleVideo(cid, data)
	case evUpdate:
		ctl.handleUpdate(cid, conn, data)
	case evNewURL:
		ctl.handleNewURL(cid, data)
	case evKickParticipant:
		ctl.handleKickParticipant(cid, conn, data)
	case evKickSelfAck:
		ctl.handleKickAck(cid, conn)
	case evUnknown:
		log.Warn().Str("module", "signal").Str("type", env.Type).Str("cid", string(cid)).Msg("unknown event")
	}
}

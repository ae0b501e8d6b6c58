// Package domain contains the value types of a watch session: participants,
// rooms, room codes. No transport or lifecycle logic here.
package domain

// ConnectionID is the unique handle for one participant's live channel.
// It doubles as participant identity within a room.
type ConnectionID string

type Role string

const (
	RoleHost  Role = "Host"
	RoleGuest Role = "Guest"
)

// ParticipantInfo is the untrusted display payload a client supplies on
// create/join/update. It carries no identity.
type ParticipantInfo struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// Participant is one room occupant. The role travels as "type" on the wire.
type Participant struct {
	ConnectionID ConnectionID `json:"connectionId"`
	Nickname     string       `json:"nickname"`
	Avatar       string       `json:"avatar"`
	Role         Role         `json:"type"`
}

// NewParticipant avoids ad-hoc struct literals in the lifecycle code.
func NewParticipant(cid ConnectionID, info ParticipantInfo, role Role) Participant {
	return Participant{
		ConnectionID: cid,
		Nickname:     info.Nickname,
		Avatar:       info.Avatar,
		Role:         role,
	}
}

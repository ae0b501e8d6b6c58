package domain

import "errors"

// MaxGuests caps occupancy at one host plus three guests.
const MaxGuests = 3

var (
	ErrRoomNotFound    = errors.New("room does not exist")
	ErrRoomFull        = errors.New("room full")
	ErrInvalidRoomCode = errors.New("invalid room code")
)

// Room is one live watch session. Guests keep join order; that order decides
// host promotion. TransferQueue holds the members still expected to finish
// loading the most recent URL change.
type Room struct {
	Code          RoomCode
	Host          Participant
	Guests        []Participant
	ActiveURL     string
	TransferQueue []ConnectionID
}

func NewRoom(code RoomCode, host Participant, url string) *Room {
	return &Room{
		Code:      code,
		Host:      host,
		Guests:    make([]Participant, 0, MaxGuests),
		ActiveURL: url,
	}
}

// Members returns the occupants host-first, guests in roster order.
func (r *Room) Members() []Participant {
	out := make([]Participant, 0, len(r.Guests)+1)
	out = append(out, r.Host)
	out = append(out, r.Guests...)
	return out
}

// MemberIDs returns the connection ids of all occupants, host first.
func (r *Room) MemberIDs() []ConnectionID {
	out := make([]ConnectionID, 0, len(r.Guests)+1)
	out = append(out, r.Host.ConnectionID)
	for _, g := range r.Guests {
		out = append(out, g.ConnectionID)
	}
	return out
}

// RoomSnapshot is an independent copy of a room's state at one instant.
// It shares no memory with the live room.
type RoomSnapshot struct {
	Code   RoomCode      `json:"code"`
	Host   Participant   `json:"host"`
	Guests []Participant `json:"guests"`
	URL    string        `json:"url"`
}

// Snapshot clones the room structurally so the value handed to a caller
// cannot be changed by later mutations.
func (r *Room) Snapshot() RoomSnapshot {
	guests := make([]Participant, len(r.Guests))
	copy(guests, r.Guests)
	return RoomSnapshot{
		Code:   r.Code,
		Host:   r.Host,
		Guests: guests,
		URL:    r.ActiveURL,
	}
}

// ResetTransferQueue rebuilds the queue as every current member except the
// one that triggered the URL change, host first.
func (r *Room) ResetTransferQueue(trigger ConnectionID) {
	queue := make([]ConnectionID, 0, len(r.Guests)+1)
	for _, id := range r.MemberIDs() {
		if id != trigger {
			queue = append(queue, id)
		}
	}
	r.TransferQueue = queue
}

// DropFromTransferQueue removes cid from the queue if present and reports
// whether it was there.
func (r *Room) DropFromTransferQueue(cid ConnectionID) bool {
	for i, id := range r.TransferQueue {
		if id == cid {
			r.TransferQueue = append(r.TransferQueue[:i], r.TransferQueue[i+1:]...)
			return true
		}
	}
	return false
}

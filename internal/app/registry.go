// Package app owns the mutable session state: the room registry and the
// connection index. All mutation goes through the lifecycle operations here.
package app

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avlowe/watchroom/internal/domain"
)

// Registry maps live room codes to room state and connections to the room
// they occupy. One mutex covers both maps and is held for the entirety of
// every lifecycle operation, so no two operations ever interleave their
// reads and writes.
type Registry struct {
	mu    sync.Mutex
	alloc *domain.CodeAllocator
	rooms map[domain.RoomCode]*domain.Room
	index map[domain.ConnectionID]domain.RoomCode
}

func NewRegistry(alloc *domain.CodeAllocator) *Registry {
	return &Registry{
		alloc: alloc,
		rooms: make(map[domain.RoomCode]*domain.Room),
		index: make(map[domain.ConnectionID]domain.RoomCode),
	}
}

// Create allocates a fresh code, installs cid as host of a new room and
// indexes the connection. It cannot fail.
func (r *Registry) Create(cid domain.ConnectionID, info domain.ParticipantInfo, url string) domain.RoomCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.alloc.Allocate(func(c domain.RoomCode) bool {
		_, exists := r.rooms[c]
		return exists
	})
	host := domain.NewParticipant(cid, info, domain.RoleHost)
	r.rooms[code] = domain.NewRoom(code, host, url)
	r.index[cid] = code

	log.Info().Str("module", "app.registry").Str("room", string(code)).Str("cid", string(cid)).Msg("room created")
	return code
}

// Join adds cid as a guest. The returned snapshot is the room's state from
// just before the join and shares no memory with the live room. Fails with
// ErrRoomNotFound or ErrRoomFull; failures leave the registry untouched.
func (r *Registry) Join(cid domain.ConnectionID, info domain.ParticipantInfo, code domain.RoomCode) (domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	if len(room.Guests) >= domain.MaxGuests {
		return domain.RoomSnapshot{}, domain.ErrRoomFull
	}

	snap := room.Snapshot()
	room.Guests = append(room.Guests, domain.NewParticipant(cid, info, domain.RoleGuest))
	r.index[cid] = code

	log.Info().Str("module", "app.registry").Str("room", string(code)).Str("cid", string(cid)).Int("guests", len(room.Guests)).Msg("guest joined")
	return snap, nil
}

// LeaveResult describes what a departure did to the room.
type LeaveResult struct {
	Code          domain.RoomCode
	Departed      domain.Participant
	HostID        domain.ConnectionID
	Promoted      bool
	RoomDestroyed bool
	// WasPendingTransfer is true when the departing member was still in the
	// room's URL transfer queue.
	WasPendingTransfer bool
}

// Leave removes cid from whatever room it occupies. A departing host hands
// the room to the earliest-joined guest, or takes the room down with it when
// no guests remain. Returns ok=false when cid is not indexed or its room is
// already gone; that is a defensive no-op, not an error.
func (r *Registry) Leave(cid domain.ConnectionID) (LeaveResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.index[cid]
	if !ok {
		return LeaveResult{}, false
	}
	delete(r.index, cid)

	room, ok := r.rooms[code]
	if !ok {
		return LeaveResult{}, false
	}

	res := LeaveResult{Code: code, HostID: room.Host.ConnectionID}

	if cid == room.Host.ConnectionID {
		res.Departed = room.Host
		if len(room.Guests) > 0 {
			promoted := room.Guests[0]
			promoted.Role = domain.RoleHost
			room.Host = promoted
			room.Guests = room.Guests[1:]
			res.HostID = promoted.ConnectionID
			res.Promoted = true
			log.Info().Str("module", "app.registry").Str("room", string(code)).Str("new_host", string(res.HostID)).Msg("host promoted")
		} else {
			delete(r.rooms, code)
			res.RoomDestroyed = true
			log.Info().Str("module", "app.registry").Str("room", string(code)).Msg("room destroyed")
		}
	} else {
		for i, g := range room.Guests {
			if g.ConnectionID == cid {
				res.Departed = g
				room.Guests = append(room.Guests[:i], room.Guests[i+1:]...)
				break
			}
		}
	}

	if !res.RoomDestroyed {
		res.WasPendingTransfer = room.DropFromTransferQueue(cid)
	}

	log.Info().Str("module", "app.registry").Str("room", string(code)).Str("cid", string(cid)).Msg("member left")
	return res, true
}

// Update sanitizes the display fields and rewrites cid's participant record
// in place, keeping its role. Create and join store display fields as
// received; only this path sanitizes. Returns ok=false when cid is neither
// host nor guest of the room.
func (r *Registry) Update(cid domain.ConnectionID, info domain.ParticipantInfo, code domain.RoomCode) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return domain.Participant{}, false
	}

	clean := domain.SanitizeInfo(info)

	if cid == room.Host.ConnectionID {
		room.Host = domain.NewParticipant(cid, clean, domain.RoleHost)
		return room.Host, true
	}
	for i, g := range room.Guests {
		if g.ConnectionID == cid {
			room.Guests[i] = domain.NewParticipant(cid, clean, domain.RoleGuest)
			return room.Guests[i], true
		}
	}
	return domain.Participant{}, false
}

// SetURL swaps the room's active URL and rebuilds the transfer queue as all
// current members except the trigger, host first. Defensive no-op when the
// room is gone.
func (r *Registry) SetURL(trigger domain.ConnectionID, code domain.RoomCode, url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return false
	}
	room.ActiveURL = url
	room.ResetTransferQueue(trigger)

	log.Info().Str("module", "app.registry").Str("room", string(code)).Str("url", url).Int("pending", len(room.TransferQueue)).Msg("new url")
	return true
}

// ActiveURL resolves a raw code from the lookup path: case-normalized,
// format-checked, then matched against live rooms.
func (r *Registry) ActiveURL(rawCode string) (string, error) {
	code := strings.ToUpper(rawCode)
	if !domain.ValidCode(code) {
		return "", domain.ErrInvalidRoomCode
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[domain.RoomCode(code)]
	if !ok {
		return "", domain.ErrRoomNotFound
	}
	return room.ActiveURL, nil
}

// Members returns a copy of the room's occupants, host first. Empty when the
// room does not exist.
func (r *Registry) Members(code domain.RoomCode) []domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil
	}
	return room.Members()
}

// RoomOf reports which room cid currently occupies.
func (r *Registry) RoomOf(cid domain.ConnectionID) (domain.RoomCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.index[cid]
	return code, ok
}

// TransferQueue returns a copy of the room's pending transfer queue.
func (r *Registry) TransferQueue(code domain.RoomCode) []domain.ConnectionID {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil
	}
	out := make([]domain.ConnectionID, len(room.TransferQueue))
	copy(out, room.TransferQueue)
	return out
}

// Stats are the aggregate occupancy counts served to the occupancy poller.
type Stats struct {
	CurrNumRooms int `json:"currNumRooms"`
	CurrNumUsers int `json:"currNumUsers"`
}

func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{CurrNumRooms: len(r.rooms), CurrNumUsers: len(r.index)}
}

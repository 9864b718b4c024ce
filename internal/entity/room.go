package entity

import "time"

// Room pairs two identities for an online game. A room is terminated, not
// deleted; a finished room's code becomes reusable.
type Room struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	HostID    string    `json:"host_id"`
	GuestID   string    `json:"guest_id,omitempty"`
	GameID    string    `json:"game_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRoom(id, code, hostID string) *Room {
	now := time.Now().UTC()

	return &Room{
		ID:        id,
		Code:      code,
		HostID:    hostID,
		Status:    StatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Room) Touch() {
	that.UpdatedAt = time.Now().UTC()
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

// IsActive reports whether the room still occupies its code.
func (that *Room) IsActive() bool {
	return that.IsWaiting() || that.IsPlaying()
}

func (that *Room) HasGuest() bool {
	return that.GuestID != ""
}

func (that *Room) IsParticipant(userID string) bool {
	return that.HostID == userID || (that.HasGuest() && that.GuestID == userID)
}

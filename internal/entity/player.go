package entity

const (
	ColorRed    = "red"
	ColorYellow = "yellow"

	BotNickname = "Computer"
)

// Player is one seat of a game, created at game creation and immutable
// afterwards. UserID is empty for the automated player.
type Player struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id,omitempty"`
	Nickname string `json:"nickname"`
	Color    string `json:"color"`
	IsBot    bool   `json:"is_bot"`
	GameID   string `json:"game_id"`
	Seat     int    `json:"seat"`
}

// NewPlayer seats a human. Seat one plays red, seat two yellow.
func NewPlayer(id, userID, nickname, gameID string, seat int) *Player {
	return &Player{
		ID:       id,
		UserID:   userID,
		Nickname: nickname,
		Color:    seatColor(seat),
		GameID:   gameID,
		Seat:     seat,
	}
}

// NewBotPlayer seats the automated opponent.
func NewBotPlayer(id, gameID string, seat int) *Player {
	return &Player{
		ID:       id,
		Nickname: BotNickname,
		Color:    seatColor(seat),
		IsBot:    true,
		GameID:   gameID,
		Seat:     seat,
	}
}

func seatColor(seat int) string {
	if seat == 1 {
		return ColorRed
	}
	return ColorYellow
}

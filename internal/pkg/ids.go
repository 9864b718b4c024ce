package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

// RoomCodeAlphabet spells codes in uppercase letters and digits.
const RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const roomCodeLength = 6

// NewID generates an opaque url-safe identifier.
func NewID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(b)
}

// NewRoomCode generates a 6-character room code.
func NewRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(RoomCodeAlphabet))))
		if err != nil {
			return ""
		}
		code[i] = RoomCodeAlphabet[n.Int64()]
	}

	return string(code)
}

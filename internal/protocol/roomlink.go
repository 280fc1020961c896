package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// MinRoomKeyLen is the minimum length of a room key. Shorter keys are
// fatal to the session at join time.
const MinRoomKeyLen = 22

var (
	ErrRoomKeyTooShort = errors.New("room key shorter than 22 characters")
	ErrBadRoomLink     = errors.New("malformed room link")
)

// EncodeRoomLink builds an invite URL: the room id and key travel in the
// fragment so they never reach a server log.
func EncodeRoomLink(base, roomID, roomKey string) string {
	return fmt.Sprintf("%s#room=%s,%s", base, roomID, roomKey)
}

// ParseRoomLink extracts the room id and key from an invite URL or a
// bare "#room=<id>,<key>" fragment.
func ParseRoomLink(link string) (roomID, roomKey string, err error) {
	_, frag, ok := strings.Cut(link, "#")
	if !ok {
		frag = link
	}
	val, ok := strings.CutPrefix(frag, "room=")
	if !ok {
		return "", "", ErrBadRoomLink
	}
	roomID, roomKey, ok = strings.Cut(val, ",")
	if !ok || roomID == "" || roomKey == "" {
		return "", "", ErrBadRoomLink
	}
	return roomID, roomKey, nil
}

// ValidateRoomKey enforces the minimum key length.
func ValidateRoomKey(key string) error {
	if len(key) < MinRoomKeyLen {
		return ErrRoomKeyTooShort
	}
	return nil
}

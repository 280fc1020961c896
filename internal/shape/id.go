package shape

import "github.com/google/uuid"

// NewID returns a collision-resistant shape id. A random 128-bit uuid is
// combined with the originating client's id so that two clients creating
// shapes in the same instant can never collide, unlike the wall-clock
// ids this scheme replaces.
func NewID(userID string) string {
	id := uuid.NewString()
	if userID == "" {
		return id
	}
	return id + ":" + userID
}

package activeobjects

import "github.com/google/uuid"

// NewID returns a fresh random identifier. It is the default
// generator for the controller's instance ID (see WithIDGenerator);
// agents and tasks are not given generated IDs.
func NewID() string {
	return uuid.NewString()
}

// Package identity provides row identifiers and the password digest pair used
// by the auth subsystem.
package identity

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateID returns a row identifier combining a base36 millisecond timestamp
// with a random suffix. It is an identifier, not a security token: a collision
// would be a correctness bug, so the uuid tail exists for uniqueness rather
// than unpredictability.
func GenerateID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return ts + suffix
}

package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// LocalPrefix tags ids minted by the local fallback cache so later updates
// and deletes can be routed without asking the remote store.
const LocalPrefix = "local"

// Remote returns a new id for rows written to the remote store.
func Remote() string {
	return uuid.NewString()
}

// Local creates a locally-sourced id: "local-<nanoid>".
func Local() (string, error) {
	n, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return LocalPrefix + "-" + n, nil
}

// IsLocal reports whether id was minted by the local cache.
func IsLocal(id string) bool {
	return strings.HasPrefix(id, LocalPrefix+"-")
}

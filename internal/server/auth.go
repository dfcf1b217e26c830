package server

import (
	"crypto/subtle"
	"strings"
)

// authorizeHost compares the presented capability with the stored one in
// constant time.
func authorizeHost(game *Game, hostToken string) error {
	provided := strings.TrimSpace(hostToken)
	if provided == "" || game.HostToken == "" {
		return errHostMismatch
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(game.HostToken)) != 1 {
		return errHostMismatch
	}
	return nil
}

func isHost(game *Game, hostToken string) bool {
	return authorizeHost(game, hostToken) == nil
}

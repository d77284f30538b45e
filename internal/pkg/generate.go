package pkg

import (
	"crypto/sha1" //nolint: gosec // mandated by RFC 6455
	"encoding/base64"

	"github.com/google/uuid"
)

// websocketGUID is the fixed suffix RFC 6455 appends to the client key.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// GenerateAcceptKey derives the Sec-WebSocket-Accept header value from the
// Sec-WebSocket-Key sent by the client.
func GenerateAcceptKey(key string) string {
	hash := sha1.Sum([]byte(key + websocketGUID)) //nolint: gosec // mandated by RFC 6455
	return base64.StdEncoding.EncodeToString(hash[:])
}

// GenerateNewSessionID returns a fresh player session identifier.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// GenerateGameID returns a short identifier players can share to join a game.
func GenerateGameID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	return id.String()[:8], nil
}

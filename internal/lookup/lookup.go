// Package lookup provides the gateway to the technical database of
// fault codes and events.
package lookup

import (
	"context"
	"errors"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
)

// ErrUnavailable marks a gateway that cannot be reached. The dialogue
// treats it as a service failure and leaves the session untouched so
// the user can retry the same message.
var ErrUnavailable = errors.New("lookup store unavailable")

// Gateway resolves fault-code and event queries against the backing
// store. Both methods return (nil, nil) on a miss; a miss is a normal
// negative result, not an error.
type Gateway interface {
	// LookupCode finds the record for a CID/FMI pair on the given
	// machine. Model matches exactly, serial on its 3-character prefix.
	LookupCode(ctx context.Context, model, serial3, cid, fmi string) (*domain.FaultCodeRecord, error)

	// LookupEvent finds the record for an EID/level pair on the given
	// machine. EID includes its "E" prefix.
	LookupEvent(ctx context.Context, model, serial3, eid, level string) (*domain.EventRecord, error)

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

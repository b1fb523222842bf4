// Package cursor encodes keyset pagination positions as opaque tokens.
//
// A token names the last row a page was built from; the next page starts
// strictly after it. Rows inserted or claimed between pages therefore never
// shift the window, unlike offsets.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Key is a position in a (created_at, id) ordering.
type Key struct {
	CreatedAt time.Time
	ID        kernel.UUID
}

type wire struct {
	T time.Time `json:"t"`
	I string    `json:"i"`
}

// Encode returns the token for k.
func Encode(k Key) string {
	raw, _ := json.Marshal(wire{T: k.CreatedAt.UTC(), I: k.ID.String()}) //nolint:errchkjson // plain struct
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a token. The empty token means "from the start" and yields
// nil.
func Decode(token string) (*Key, error) {
	if token == "" {
		return nil, nil //nolint:nilnil // no position
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("cursor", err)
	}

	var w wire
	if err = json.Unmarshal(raw, &w); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("cursor", err)
	}
	if w.T.IsZero() {
		return nil, errs.NewValueIsInvalidErrorWithCause("cursor", errors.New("missing timestamp"))
	}

	id, err := kernel.UUIDFromString(w.I)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("cursor", err)
	}

	return &Key{CreatedAt: w.T, ID: id}, nil
}

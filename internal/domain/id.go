package domain

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// ItemID identifies a shared-list item. It is either a store-assigned
// numeric id (persisted) or a locally-synthesized uuid (pending, created
// while the store was unreachable and never written). Update and delete
// paths branch on the variant: a pending item has no store row, so those
// operations are silently routed to create instead.
type ItemID struct {
	stored int64
	local  string
}

// StoredID wraps a store-assigned identifier.
func StoredID(n int64) ItemID {
	return ItemID{stored: n}
}

// NewPendingID synthesizes a local-only identifier.
func NewPendingID() ItemID {
	return ItemID{local: uuid.NewString()}
}

// ParseItemID classifies a wire value: all-digit strings are stored ids,
// anything else is treated as a pending local id.
func ParseItemID(s string) ItemID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		return ItemID{stored: n}
	}
	return ItemID{local: s}
}

// Persisted reports whether the id was assigned by the store.
func (id ItemID) Persisted() bool { return id.stored > 0 }

// Stored returns the store-assigned identifier, 0 for pending items.
func (id ItemID) Stored() int64 { return id.stored }

// IsZero reports whether the id carries no identity at all.
func (id ItemID) IsZero() bool { return id.stored == 0 && id.local == "" }

func (id ItemID) String() string {
	if id.Persisted() {
		return strconv.FormatInt(id.stored, 10)
	}
	return id.local
}

// MarshalJSON encodes the id as its wire string.
func (id ItemID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes a wire string into the appropriate variant.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = ParseItemID(s)
	return nil
}

package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

func TestItemIDVariants(t *testing.T) {
	stored := domain.StoredID(42)
	if !stored.Persisted() || stored.Stored() != 42 {
		t.Fatalf("expected persisted id 42, got %v", stored)
	}
	if stored.String() != "42" {
		t.Fatalf("expected wire form \"42\", got %q", stored.String())
	}

	pending := domain.NewPendingID()
	if pending.Persisted() {
		t.Fatal("pending id must not report persisted")
	}
	if pending.String() == "" {
		t.Fatal("pending id must carry a local identifier")
	}
}

func TestParseItemID(t *testing.T) {
	tests := []struct {
		in        string
		persisted bool
	}{
		{"42", true},
		{"1", true},
		{"0", false},
		{"-5", false},
		{"b7a9c3de-0000-4000-8000-000000000000", false},
		{"", false},
	}
	for _, tc := range tests {
		id := domain.ParseItemID(tc.in)
		if id.Persisted() != tc.persisted {
			t.Errorf("ParseItemID(%q): persisted=%v, want %v", tc.in, id.Persisted(), tc.persisted)
		}
	}
}

func TestItemIDJSONRoundTrip(t *testing.T) {
	for _, id := range []domain.ItemID{domain.StoredID(7), domain.ParseItemID("local-abc")} {
		b, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back domain.ItemID
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if back != id {
			t.Fatalf("round trip changed id: %v -> %v", id, back)
		}
	}
}

func TestParseUser(t *testing.T) {
	if _, err := domain.ParseUser("jiji"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := domain.ParseUser("baba"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "mama", "JIJI", "jiji "} {
		if _, err := domain.ParseUser(bad); err == nil {
			t.Errorf("ParseUser(%q): expected error", bad)
		}
	}
}

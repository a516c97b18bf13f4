package codec

import (
	"strings"
	"testing"
)

func TestLimitRejectsOversizedPayloads(t *testing.T) {
	c := Limit[string]{Inner: String{}, MaxDecode: 8}

	b, err := c.Encode(strings.Repeat("x", 100))
	if err != nil {
		t.Fatalf("Encode is never limited: %v", err)
	}
	if _, err := c.Decode(b); err == nil {
		t.Fatalf("oversized payload must fail Decode")
	}
	if v, err := c.Decode([]byte("ok")); err != nil || v != "ok" {
		t.Fatalf("small payload: v=%q err=%v", v, err)
	}

	// MaxDecode <= 0 disables the guard.
	open := Limit[string]{Inner: String{}}
	if _, err := open.Decode(b); err != nil {
		t.Fatalf("disabled guard must pass through: %v", err)
	}
}

package token

import (
	"sort"
	"strings"
	"testing"
)

func TestNewAccessTokenLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 1000; i++ {
		tok := NewAccessToken()
		if len(tok) != AccessTokenLength {
			t.Fatalf("unexpected token length: got=%d expected=%d", len(tok), AccessTokenLength)
		}
		for _, r := range tok {
			if !strings.ContainsRune(accessTokenAlphabet, r) {
				t.Fatalf("token contains char outside alphabet: %q", r)
			}
		}
	}
}

func TestNewAccessTokenNoCollision(t *testing.T) {
	const count = 100000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		tok := NewAccessToken()
		if _, ok := seen[tok]; ok {
			t.Fatalf("token collision after %d tokens", i)
		}
		seen[tok] = struct{}{}
	}
}

func TestNewIDUniqueAndSortable(t *testing.T) {
	const count = 1000
	ids := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id := NewID()
		if _, ok := seen[id]; ok {
			t.Fatalf("id collision: %s", id)
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	// UUIDv7 前缀携带毫秒时间戳，同一批次生成应大致有序
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	misplaced := 0
	for i := range ids {
		if ids[i] != sorted[i] {
			misplaced++
		}
	}
	if misplaced > count/10 {
		t.Fatalf("ids not roughly time-ordered: %d of %d misplaced", misplaced, count)
	}
}

func TestNewVerifyCode(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		wantLength int
	}{
		{name: "default_six", length: 6, wantLength: 6},
		{name: "too_short_falls_back", length: 2, wantLength: 6},
		{name: "too_long_falls_back", length: 16, wantLength: 6},
		{name: "eight", length: 8, wantLength: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := NewVerifyCode(tt.length)
			if err != nil {
				t.Fatalf("generate code failed: %v", err)
			}
			if len(code) != tt.wantLength {
				t.Fatalf("unexpected code length: got=%d expected=%d", len(code), tt.wantLength)
			}
			for _, r := range code {
				if r < '0' || r > '9' {
					t.Fatalf("code contains non-digit: %q", r)
				}
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal("abc123", "abc123") {
		t.Fatal("expected equal tokens to match")
	}
	if Equal("abc123", "abc124") {
		t.Fatal("expected different tokens to mismatch")
	}
	if Equal("abc", "abc123") {
		t.Fatal("expected different-length tokens to mismatch")
	}
}

package api

import (
	"testing"
	"time"
)

func TestDownloadStore_PutGet(t *testing.T) {
	t.Parallel()

	s := newDownloadStore()
	token := s.put("/tmp/a.xlsx", "结果.xlsx", time.Minute)
	if token == "" {
		t.Fatalf("empty token")
	}

	item, ok := s.get(token)
	if !ok {
		t.Fatalf("token not found")
	}
	if item.filePath != "/tmp/a.xlsx" || item.fileName != "结果.xlsx" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestDownloadStore_Expiry(t *testing.T) {
	t.Parallel()

	s := newDownloadStore()
	token := s.put("/tmp/a.xlsx", "a.xlsx", -time.Second)

	if _, ok := s.get(token); ok {
		t.Fatalf("expired token should not resolve")
	}
}

func TestDownloadStore_UnknownToken(t *testing.T) {
	t.Parallel()

	s := newDownloadStore()
	if _, ok := s.get("no-such-token"); ok {
		t.Fatalf("unknown token should not resolve")
	}
}

func TestDownloadStore_TokensUnique(t *testing.T) {
	t.Parallel()

	s := newDownloadStore()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token := s.put("/tmp/a.xlsx", "a.xlsx", time.Minute)
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}

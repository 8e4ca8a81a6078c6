package id

import (
	"encoding/hex"
	"regexp"
	"sync"
	"testing"
)

var (
	reHex32   = regexp.MustCompile(`^[a-f0-9]{32}$`)
	reAppID   = regexp.MustCompile(`^LA[a-f0-9]{32}$`)
	reMember  = regexp.MustCompile(`^M[A-F0-9]{9}$`)
	reUUIDStr = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-4[a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
)

func TestNewID32_FormatAndDecode(t *testing.T) {
	got := NewID32()

	if len(got) != 32 {
		t.Fatalf("length = %d, want 32 (got=%q)", len(got), got)
	}
	if !reHex32.MatchString(got) {
		t.Fatalf("not 32-char lowercase hex: %q", got)
	}
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("hex.DecodeString error: %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("decoded bytes = %d, want 16", len(b))
	}
}

func TestUUIDGenerator_Formats(t *testing.T) {
	g := NewGenerator()

	if got := g.ApplicationID(); !reAppID.MatchString(got) {
		t.Fatalf("application id format: %q", got)
	}
	if got := g.MemberID(); !reMember.MatchString(got) {
		t.Fatalf("member id format: %q", got)
	}
	if got := g.ProspectID(); !reUUIDStr.MatchString(got) {
		t.Fatalf("prospect id format: %q", got)
	}
}

func TestUUIDGenerator_ApplicationIDsUniqueUnderConcurrency(t *testing.T) {
	g := NewGenerator()
	const workers, per = 8, 250

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*per)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				v := g.ApplicationID()
				mu.Lock()
				if _, dup := seen[v]; dup {
					mu.Unlock()
					t.Errorf("duplicate application id %q", v)
					return
				}
				seen[v] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != workers*per {
		t.Fatalf("got %d ids, want %d", len(seen), workers*per)
	}
}

func TestSequence_Deterministic(t *testing.T) {
	s := &Sequence{}
	if got := s.ApplicationID(); got != "LA0001" {
		t.Fatalf("first = %q", got)
	}
	if got := s.MemberID(); got != "M0002" {
		t.Fatalf("second = %q", got)
	}
	if got := s.ProspectID(); got != "prospect-0003" {
		t.Fatalf("third = %q", got)
	}
}

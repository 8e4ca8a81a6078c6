package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Generator issues the public identifiers handed out by the workflows.
type Generator interface {
	ProspectID() string
	MemberID() string
	ApplicationID() string
}

// UUIDGenerator is the production Generator.
//
// Application ids are "LA" + a UUIDv7 in hex: the leading 48 bits are the
// millisecond timestamp and the rest is random, so ids sort by submission
// time and concurrent submissions in the same millisecond still differ.
type UUIDGenerator struct{}

func NewGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) ProspectID() string { return uuid.NewString() }

// MemberID is "M" + 9 uppercase hex chars of a random UUID. Callers check the
// draw against existing members and draw again on a hit.
func (UUIDGenerator) MemberID() string {
	u := uuid.New()
	return "M" + strings.ToUpper(hex.EncodeToString(u[:])[:9])
}

func (UUIDGenerator) ApplicationID() string {
	u, err := uuid.NewV7()
	if err != nil {
		return "LA" + NewID32()
	}
	return "LA" + strings.ReplaceAll(u.String(), "-", "")
}

// Sequence is a deterministic Generator for tests.
type Sequence struct {
	mu sync.Mutex
	n  int
}

func (s *Sequence) next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

func (s *Sequence) ProspectID() string    { return fmt.Sprintf("prospect-%04d", s.next()) }
func (s *Sequence) MemberID() string      { return fmt.Sprintf("M%04d", s.next()) }
func (s *Sequence) ApplicationID() string { return fmt.Sprintf("LA%04d", s.next()) }

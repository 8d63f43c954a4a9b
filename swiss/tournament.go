/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
// Package swiss implements a Swiss-style tournament: team registration,
// round pairing with byes, score application and the text document the
// tournament state is saved to.
package swiss

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
)

const DefaultName = "Torneo_Trugo"

// Store persists whole tournament documents by key. Put must fully replace
// any previous document under the same key.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Tournament holds the full state of one competition. All methods are safe
// to call from multiple goroutines; operations are serialized.
type Tournament struct {
	mu sync.Mutex

	name    string
	teams   []*Team // registration order
	byID    map[string]*Team
	round   int
	matches []Match
	scored  bool // current round's scores applied

	byePolicy ByeScorePolicy
	saveStore Store
	saveKey   string
}

// New returns an empty tournament. A name ValidateName rejects is replaced
// by DefaultName.
func New(name string) *Tournament {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		name = DefaultName
	}
	return &Tournament{
		name: name,
		byID: make(map[string]*Team),
	}
}

// ValidateName checks that name can be stored as the header line of the
// tournament document: a single line that reads back as the name and not as
// a rule, a marker or another header field.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, "\n\r") {
		return fmt.Errorf("%w: tournament name %q must be a single line",
			ErrValidation, name)
	}
	if isRule(name) || name == pairsMarker {
		return fmt.Errorf("%w: tournament name %q is reserved", ErrValidation,
			name)
	}
	for _, prefix := range []string{roundPrefix, scoredFlag, teamPrefix, ">"} {
		if strings.HasPrefix(name, prefix) {
			return fmt.Errorf("%w: tournament name %q must not start with %q",
				ErrValidation, name, prefix)
		}
	}
	return nil
}

func (t *Tournament) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.name
}

// Round returns the number of the most recently paired round, 0 before the
// first.
func (t *Tournament) Round() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.round
}

// Matches returns the current round's pairings.
func (t *Tournament) Matches() []Match {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]Match(nil), t.matches...)
}

// SetByeScorePolicy controls how score submissions for bye matches are
// treated by ApplyRoundScores.
func (t *Tournament) SetByeScorePolicy(p ByeScorePolicy) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.byePolicy = p
}

// SetAutoSave makes round generation and total corrections write the
// tournament document to s under key. An empty key selects FileName(name).
func (t *Tournament) SetAutoSave(s Store, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.saveStore = s
	t.saveKey = key
}

// Standings returns every team ordered by total points, highest first. Teams
// tied on points keep their registration order.
func (t *Tournament) Standings() []Team {
	t.mu.Lock()
	defer t.mu.Unlock()

	ranked := t.ranking()
	out := make([]Team, 0, len(ranked))
	for _, team := range ranked {
		out = append(out, team.snapshot())
	}
	return out
}

// ranking is a stable descending sort of the registry by points.
func (t *Tournament) ranking() []*Team {
	ranked := append([]*Team(nil), t.teams...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})
	return ranked
}

// Save writes the tournament document to s under key.
func (t *Tournament) Save(ctx context.Context, s Store, key string) error {
	t.mu.Lock()
	data := t.encodeLocked()
	t.mu.Unlock()

	if err := s.Put(ctx, key, data); err != nil {
		return fmt.Errorf("swiss.save: unable to store %v: %w", key, err)
	}
	return nil
}

// Load replaces the tournament state with the document stored under key. The
// document is parsed completely before anything is replaced, so on error the
// tournament is left untouched.
func (t *Tournament) Load(ctx context.Context, s Store, key string) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("swiss.load: unable to read %v: %w", key, err)
	}
	loaded, err := Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("swiss.load: %v: %w", key, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.name = loaded.name
	t.teams = loaded.teams
	t.byID = loaded.byID
	t.round = loaded.round
	t.matches = loaded.matches
	t.scored = loaded.scored

	return nil
}

// autoSaveLocked writes the document to the configured auto-save target, if
// any. t.mu must be held.
func (t *Tournament) autoSaveLocked(ctx context.Context) error {
	if t.saveStore == nil {
		return nil
	}
	key := t.saveKey
	if key == "" {
		key = FileName(t.name)
	}
	if err := t.saveStore.Put(ctx, key, t.encodeLocked()); err != nil {
		return fmt.Errorf("%w: %v: %w", ErrAutoSave, key, err)
	}
	return nil
}

// FileName derives the default document name from a tournament name: letters,
// digits, spaces, '_' and '-' are kept and ".txt" is appended.
func FileName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' ||
			r == '-' {
			sb.WriteRune(r)
		}
	}
	safe := strings.TrimSpace(sb.String())
	if safe == "" {
		safe = DefaultName
	}
	return safe + ".txt"
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ByeScorePolicy decides whether the team sitting out a round submits a
// score for it.
type ByeScorePolicy int

const (
	// ByeScoreOptional applies a bye score when one is submitted.
	ByeScoreOptional ByeScorePolicy = iota
	// ByeScoreRequired rejects a round whose bye score is missing.
	ByeScoreRequired
	// ByeScoreIgnored never applies a bye score.
	ByeScoreIgnored
)

func (p ByeScorePolicy) String() string {
	switch p {
	case ByeScoreOptional:
		return "optional"
	case ByeScoreRequired:
		return "required"
	case ByeScoreIgnored:
		return "ignored"
	}
	return "?"
}

// ParseByeScorePolicy is the inverse of ByeScorePolicy.String.
func ParseByeScorePolicy(s string) (ByeScorePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "optional":
		return ByeScoreOptional, nil
	case "required":
		return ByeScoreRequired, nil
	case "ignored":
		return ByeScoreIgnored, nil
	}
	return ByeScoreOptional, fmt.Errorf("unknown bye score policy %q", s)
}

// ScoreSheet maps team ids to the score text entered for them.
type ScoreSheet map[string]string

func parseScore(id, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: score %q for team %v is not an integer",
			ErrInvalidScore, raw, id)
	}
	return v, nil
}

// ApplyRoundScores adds the current round's scores to the team totals. Both
// teams of every regular match need an integer score; bye scores follow the
// tournament's ByeScorePolicy. Either every score is applied or, on error,
// none is. A round is scored at most once.
func (t *Tournament) ApplyRoundScores(sheet ScoreSheet) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.round == 0 || len(t.matches) == 0 {
		return fmt.Errorf("%w: no round has been paired yet", ErrValidation)
	}
	if t.scored {
		return fmt.Errorf("%w: round %v has already been scored", ErrValidation,
			t.round)
	}

	inRound := make(map[string]struct{}, len(t.teams))
	deltas := make(map[string]int, len(t.teams))
	for _, m := range t.matches {
		for _, id := range m.Teams() {
			inRound[id] = struct{}{}
		}
		if m.IsBye() {
			raw, ok := sheet[m.Team1]
			if t.byePolicy == ByeScoreIgnored {
				continue
			}
			if !ok || strings.TrimSpace(raw) == "" {
				if t.byePolicy == ByeScoreRequired {
					return fmt.Errorf("%w: missing score for team %v (bye)",
						ErrInvalidScore, m.Team1)
				}
				continue
			}
			v, err := parseScore(m.Team1, raw)
			if err != nil {
				return err
			}
			deltas[m.Team1] += v
			continue
		}
		for _, id := range m.Teams() {
			raw, ok := sheet[id]
			if !ok || strings.TrimSpace(raw) == "" {
				return fmt.Errorf("%w: missing score for team %v", ErrInvalidScore,
					id)
			}
			v, err := parseScore(id, raw)
			if err != nil {
				return err
			}
			deltas[id] += v
		}
	}
	for id := range sheet {
		if _, ok := inRound[id]; !ok {
			return fmt.Errorf("%w: team %v is not paired in round %v",
				ErrInvalidScore, id, t.round)
		}
	}

	for id, v := range deltas {
		t.byID[id].TotalPoints += v
	}
	t.scored = true

	return nil
}

// CorrectTotals overwrites team totals by hand. Blank entries are skipped.
// The corrections are applied all together or not at all, then auto-saved.
func (t *Tournament) CorrectTotals(ctx context.Context, sheet ScoreSheet) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	totals := make(map[string]int, len(sheet))
	for id, raw := range sheet {
		if _, ok := t.byID[id]; !ok {
			return fmt.Errorf("%w: team %v", ErrNotFound, id)
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		v, err := parseScore(id, raw)
		if err != nil {
			return err
		}
		totals[id] = v
	}
	for id, v := range totals {
		t.byID[id].TotalPoints = v
	}

	return t.autoSaveLocked(ctx)
}

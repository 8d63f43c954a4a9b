/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func totalPoints(tourney *Tournament) map[string]int {
	totals := make(map[string]int)
	for _, team := range tourney.Teams() {
		totals[team.ID] = team.TotalPoints
	}
	return totals
}

func sumPoints(tourney *Tournament) int {
	sum := 0
	for _, v := range totalPoints(tourney) {
		sum += v
	}
	return sum
}

func equalTotals(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func TestApplyRoundScoresWithBye(t *testing.T) {
	tourney := newTestTournament(t, "1", "Alpha", "2", "Beta", "3", "Gamma")
	mustGenerate(t, tourney)

	if err := tourney.ApplyRoundScores(ScoreSheet{"1": "7", "2": "3"}); err != nil {
		t.Fatalf("ApplyRoundScores: %v", err)
	}

	want := map[string]int{"1": 7, "2": 3, "3": 0}
	if got := totalPoints(tourney); !equalTotals(got, want) {
		t.Errorf("totals = %v; want %v", got, want)
	}
	if tourney.Round() != 1 {
		t.Errorf("ApplyRoundScores advanced the round to %v", tourney.Round())
	}
}

func TestApplyRoundScoresSum(t *testing.T) {
	tourney := newTestTournament(t, "1", "Alpha", "2", "Beta", "3", "Gamma",
		"4", "Delta")
	mustGenerate(t, tourney)
	mustCorrect(t, tourney, ScoreSheet{"1": "2", "4": "5"})
	before := sumPoints(tourney)

	sheet := ScoreSheet{"1": "3", "2": " 1 ", "3": "-2", "4": "10"}
	if err := tourney.ApplyRoundScores(sheet); err != nil {
		t.Fatalf("ApplyRoundScores: %v", err)
	}

	if got := sumPoints(tourney) - before; got != 12 {
		t.Errorf("points increased by %d; want 12", got)
	}
}

func TestApplyRoundScoresRejectsWholeRound(t *testing.T) {
	cases := []struct {
		name  string
		sheet ScoreSheet
	}{
		{name: "missing score", sheet: ScoreSheet{"1": "3", "2": "1", "3": "2"}},
		{name: "blank score", sheet: ScoreSheet{"1": "3", "2": "1", "3": "2",
			"4": " "}},
		{name: "non integer", sheet: ScoreSheet{"1": "3", "2": "1", "3": "2",
			"4": "dos"}},
		{name: "decimal", sheet: ScoreSheet{"1": "3", "2": "1", "3": "2",
			"4": "1.5"}},
		{name: "team not in round", sheet: ScoreSheet{"1": "3", "2": "1",
			"3": "2", "4": "0", "99": "4"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tourney := newTestTournament(t, "1", "Alpha", "2", "Beta", "3",
				"Gamma", "4", "Delta")
			mustGenerate(t, tourney)
			before := totalPoints(tourney)

			err := tourney.ApplyRoundScores(c.sheet)

			if !errors.Is(err, ErrInvalidScore) {
				t.Fatalf("ApplyRoundScores = %v; want ErrInvalidScore", err)
			}
			if got := totalPoints(tourney); !equalTotals(got, before) {
				t.Errorf("totals changed on failure: %v -> %v", before, got)
			}
		})
	}
}

func TestApplyRoundScoresBeforeFirstRound(t *testing.T) {
	tourney := newTestTournament(t, "1", "Alpha", "2", "Beta")

	err := tourney.ApplyRoundScores(ScoreSheet{"1": "1", "2": "0"})

	if !errors.Is(err, ErrValidation) {
		t.Errorf("ApplyRoundScores before round 1 = %v; want ErrValidation", err)
	}
}

func TestApplyRoundScoresOncePerRound(t *testing.T) {
	tourney := newTestTournament(t, "1", "Alpha", "2", "Beta")
	mustGenerate(t, tourney)
	sheet := ScoreSheet{"1": "4", "2": "2"}

	if err := tourney.ApplyRoundScores(ScoreSheet{"1": "4"}); !errors.Is(err,
		ErrInvalidScore) {
		t.Fatalf("ApplyRoundScores(partial) = %v; want ErrInvalidScore", err)
	}
	if err := tourney.ApplyRoundScores(sheet); err != nil {
		t.Fatalf("ApplyRoundScores after a rejected sheet: %v", err)
	}
	want := map[string]int{"1": 4, "2": 2}
	if err := tourney.ApplyRoundScores(sheet); !errors.Is(err, ErrValidation) {
		t.Errorf("second ApplyRoundScores = %v; want ErrValidation", err)
	}
	if got := totalPoints(tourney); !equalTotals(got, want) {
		t.Errorf("totals = %v; want %v", got, want)
	}

	// the scored state survives a save and reload
	loaded, err := Decode(strings.NewReader(encodeString(t, tourney)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := loaded.ApplyRoundScores(sheet); !errors.Is(err, ErrValidation) {
		t.Errorf("ApplyRoundScores after reload = %v; want ErrValidation", err)
	}

	mustGenerate(t, loaded)
	if err := loaded.ApplyRoundScores(sheet); err != nil {
		t.Errorf("ApplyRoundScores for round 2: %v", err)
	}
	want = map[string]int{"1": 8, "2": 4}
	if got := totalPoints(loaded); !equalTotals(got, want) {
		t.Errorf("totals after round 2 = %v; want %v", got, want)
	}
}

func TestByeScorePolicies(t *testing.T) {
	cases := []struct {
		name    string
		policy  ByeScorePolicy
		sheet   ScoreSheet
		wantErr bool
		wantBye int
	}{
		{name: "optional without entry", policy: ByeScoreOptional,
			sheet: ScoreSheet{"1": "7", "2": "3"}, wantBye: 0},
		{name: "optional with entry", policy: ByeScoreOptional,
			sheet: ScoreSheet{"1": "7", "2": "3", "3": "1"}, wantBye: 1},
		{name: "optional with bad entry", policy: ByeScoreOptional,
			sheet: ScoreSheet{"1": "7", "2": "3", "3": "x"}, wantErr: true},
		{name: "required without entry", policy: ByeScoreRequired,
			sheet: ScoreSheet{"1": "7", "2": "3"}, wantErr: true},
		{name: "required with entry", policy: ByeScoreRequired,
			sheet: ScoreSheet{"1": "7", "2": "3", "3": "2"}, wantBye: 2},
		{name: "ignored with entry", policy: ByeScoreIgnored,
			sheet: ScoreSheet{"1": "7", "2": "3", "3": "2"}, wantBye: 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tourney := newTestTournament(t, "1", "A", "2", "B", "3", "C")
			tourney.SetByeScorePolicy(c.policy)
			mustGenerate(t, tourney)

			err := tourney.ApplyRoundScores(c.sheet)

			if c.wantErr {
				if !errors.Is(err, ErrInvalidScore) {
					t.Fatalf("ApplyRoundScores = %v; want ErrInvalidScore", err)
				}
				if sumPoints(tourney) != 0 {
					t.Errorf("totals changed on failure: %v", totalPoints(tourney))
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyRoundScores: %v", err)
			}
			if got := totalPoints(tourney)["3"]; got != c.wantBye {
				t.Errorf("bye team points = %d; want %d", got, c.wantBye)
			}
		})
	}
}

func TestParseByeScorePolicy(t *testing.T) {
	for _, p := range []ByeScorePolicy{ByeScoreOptional, ByeScoreRequired,
		ByeScoreIgnored} {
		got, err := ParseByeScorePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParseByeScorePolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if got, err := ParseByeScorePolicy(""); err != nil || got != ByeScoreOptional {
		t.Errorf("ParseByeScorePolicy(\"\") = %v, %v", got, err)
	}
	if _, err := ParseByeScorePolicy("sometimes"); err == nil {
		t.Errorf("expected error for unknown policy")
	}
}

func TestCorrectTotals(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tourney := newTestTournament(t, "1", "Alpha", "2", "Beta", "3", "Gamma")
	tourney.SetAutoSave(store, "state.txt")

	if err := tourney.CorrectTotals(ctx, ScoreSheet{"1": "4", "2": "", "3": "9"}); err != nil {
		t.Fatalf("CorrectTotals: %v", err)
	}
	want := map[string]int{"1": 4, "2": 0, "3": 9}
	if got := totalPoints(tourney); !equalTotals(got, want) {
		t.Errorf("totals = %v; want %v", got, want)
	}
	if store.puts != 1 {
		t.Errorf("CorrectTotals auto-saved %d times; want 1", store.puts)
	}

	err := tourney.CorrectTotals(ctx, ScoreSheet{"1": "1", "3": "nueve"})
	if !errors.Is(err, ErrInvalidScore) {
		t.Errorf("CorrectTotals(non integer) = %v; want ErrInvalidScore", err)
	}
	err = tourney.CorrectTotals(ctx, ScoreSheet{"1": "1", "8": "2"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("CorrectTotals(unknown team) = %v; want ErrNotFound", err)
	}
	if got := totalPoints(tourney); !equalTotals(got, want) {
		t.Errorf("totals changed by failed corrections: %v", got)
	}
}

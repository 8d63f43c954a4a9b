/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"strings"
	"testing"
)

func TestBuildStandingsOutput(t *testing.T) {
	tourney := threeTeamRoundOne(t)

	want := "Standings after pairing round 1:\n\n" +
		"Place  Team       Points  Opponents\n" +
		"1.     Alpha (1)  7       Beta\n" +
		"2.     Beta (2)   3       Alpha\n" +
		"3.     Gamma (3)  0\n"

	if got := BuildStandingsOutput(tourney); got != want {
		t.Errorf("BuildStandingsOutput() =\n%v\nwant:\n%v", got, want)
	}
}

func TestBuildStandingsOutputTies(t *testing.T) {
	tourney := newTestTournament(t, "1", "Alpha", "2", "Beta", "3", "Gamma")
	mustCorrect(t, tourney, ScoreSheet{"1": "4", "2": "9", "3": "4"})

	out := BuildStandingsOutput(tourney)

	if !strings.HasPrefix(out, "Registered teams:\n") {
		t.Errorf("missing pre-round header:\n%v", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "       Gamma (3)") {
		t.Errorf("tied team should have a blank place; got %q", last)
	}
	if BuildStandingsOutput(New("Vacio")) != "No teams registered\n" {
		t.Errorf("unexpected output for an empty tournament")
	}
}

func TestBuildPairingsOutput(t *testing.T) {
	tourney := threeTeamRoundOne(t)

	want := "Round 1 Pairings:\n\n" +
		"Board  Team 1           Team 2\n" +
		"1.     Alpha(1, 7 pts)  Beta(2, 3 pts)\n" +
		"n/a    Gamma(3, 0 pts)  BYE\n"

	if got := BuildPairingsOutput(tourney); got != want {
		t.Errorf("BuildPairingsOutput() =\n%v\nwant:\n%v", got, want)
	}

	if got := BuildPairingsOutput(New("Vacio")); got != "No pairings generated yet\n" {
		t.Errorf("BuildPairingsOutput(no round) = %q", got)
	}
}

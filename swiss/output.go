/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"
)

// BuildStandingsOutput formats the standings into an aligned table. Teams
// tied on points share a place.
func BuildStandingsOutput(t *Tournament) string {
	teams := t.Standings()
	if len(teams) == 0 {
		return "No teams registered\n"
	}
	nameOf := teamNames(teams)

	type row struct{ place, team, points, rivals string }
	var rows []row
	priorPoints := 0
	for idx, team := range teams {
		place := ""
		if idx == 0 || team.TotalPoints != priorPoints {
			place = fmt.Sprintf("%v.", idx+1)
			priorPoints = team.TotalPoints
		}
		var rivals []string
		for _, id := range team.opponents {
			rivals = append(rivals, nameOf[id])
		}
		r := row{
			place:  place,
			team:   fmt.Sprintf("%s (%s)", team.Name, team.ID),
			points: fmt.Sprintf("%d", team.TotalPoints),
			rivals: strings.Join(rivals, ", "),
		}
		rows = append(rows, r)
	}

	// Compute column widths
	maxP, maxT, maxS := len("Place"), len("Team"), len("Points")
	for _, r := range rows {
		if l := len(r.place); l > maxP {
			maxP = l
		}
		if l := len(r.team); l > maxT {
			maxT = l
		}
		if l := len(r.points); l > maxS {
			maxS = l
		}
	}

	var sb strings.Builder
	if round := t.Round(); round > 0 {
		sb.WriteString(fmt.Sprintf("Standings after pairing round %v:\n\n", round))
	} else {
		sb.WriteString("Registered teams:\n\n")
	}
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %s\n", maxP, "Place", maxT,
		"Team", maxS, "Points", "Opponents"))
	for _, r := range rows {
		line := fmt.Sprintf("%-*s  %-*s  %-*s  %s", maxP, r.place, maxT, r.team,
			maxS, r.points, r.rivals)
		sb.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	return sb.String()
}

// BuildPairingsOutput formats the current round's pairings into an aligned
// table, one board per regular match followed by the bye.
func BuildPairingsOutput(t *Tournament) string {
	matches := t.Matches()
	if len(matches) == 0 {
		return "No pairings generated yet\n"
	}
	teams := t.Teams()
	byID := make(map[string]Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}
	label := func(id string) string {
		team := byID[id]
		return fmt.Sprintf("%s(%s, %d pts)", team.Name, team.ID, team.TotalPoints)
	}

	type row struct{ board, team1, team2 string }
	var rows []row
	var byes []row
	boardNum := 1
	for _, m := range matches {
		if m.IsBye() {
			byes = append(byes, row{board: "n/a", team1: label(m.Team1),
				team2: "BYE"})
			continue
		}
		rows = append(rows, row{
			board: fmt.Sprintf("%d.", boardNum),
			team1: label(m.Team1),
			team2: label(m.Team2),
		})
		boardNum++
	}
	rows = append(rows, byes...)

	// Compute column widths
	maxB, maxT1 := len("Board"), len("Team 1")
	for _, r := range rows {
		if l := len(r.board); l > maxB {
			maxB = l
		}
		if l := len(r.team1); l > maxT1 {
			maxT1 = l
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round %v Pairings:\n\n", t.Round()))
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %s\n", maxB, "Board", maxT1,
		"Team 1", "Team 2"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %s\n", maxB, r.board, maxT1,
			r.team1, r.team2))
	}

	return sb.String()
}

func teamNames(teams []Team) map[string]string {
	names := make(map[string]string, len(teams))
	for _, team := range teams {
		names[team.ID] = team.Name
	}
	return names
}

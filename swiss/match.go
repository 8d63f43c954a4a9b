/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "fmt"

type MatchKind int

const (
	MatchRegular MatchKind = iota
	MatchBye
)

func (k MatchKind) String() string {
	if k == MatchRegular {
		return "regular"
	} else if k == MatchBye {
		return "bye"
	} else {
		return "?"
	}
}

// Match is one entry of a round's pairings: either two teams facing each
// other or a single team receiving the bye.
type Match struct {
	Kind  MatchKind
	Team1 string
	// Team2 is empty for a bye.
	Team2 string
}

func Regular(team1, team2 string) Match {
	return Match{Kind: MatchRegular, Team1: team1, Team2: team2}
}

func Bye(team string) Match {
	return Match{Kind: MatchBye, Team1: team}
}

func (m Match) IsBye() bool {
	return m.Kind == MatchBye
}

// Teams returns the ids taking part in the match.
func (m Match) Teams() []string {
	if m.IsBye() {
		return []string{m.Team1}
	}
	return []string{m.Team1, m.Team2}
}

func (m Match) String() string {
	if m.IsBye() {
		return fmt.Sprintf("%v,%v", m.Team1, byeToken)
	}
	return fmt.Sprintf("%v,%v", m.Team1, m.Team2)
}

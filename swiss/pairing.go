/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"context"
	"fmt"
)

const MinTeams = 2

// GenerateNextRound pairs the next round and makes it the current one.
//
// Teams are ranked by points (ties in registration order). With an odd
// number of teams the lowest ranked team that has not had a bye yet sits
// out; if every team has had one, the lowest ranked team does. The rest are
// paired greedily from the top: each team takes the highest ranked remaining
// team it has not faced, or the next one in ranking order when it has faced
// them all. A bye awards no points.
//
// If auto-save is configured and fails, the round is still generated and the
// matches are returned alongside an error wrapping ErrAutoSave.
func (t *Tournament) GenerateNextRound(ctx context.Context) ([]Match, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.teams) < MinTeams {
		return nil, fmt.Errorf("%w: at least %v teams are needed, have %v",
			ErrValidation, MinTeams, len(t.teams))
	}

	t.round++
	t.scored = false
	t.matches = buildPairings(t.ranking())
	matches := append([]Match(nil), t.matches...)

	if err := t.autoSaveLocked(ctx); err != nil {
		return matches, err
	}
	return matches, nil
}

// buildPairings constructs the pairings for ranked and records the new
// opponent and bye state on the teams.
func buildPairings(ranked []*Team) []Match {
	remaining := append([]*Team(nil), ranked...)
	var matches []Match

	if len(remaining)%2 == 1 {
		byeIdx := len(remaining) - 1
		for i := len(remaining) - 1; i >= 0; i-- {
			if !remaining[i].ReceivedBye {
				byeIdx = i
				break
			}
		}
		byeTeam := remaining[byeIdx]
		byeTeam.ReceivedBye = true
		matches = append(matches, Bye(byeTeam.ID))
		remaining = removeIndex(remaining, byeIdx)
	}

	for len(remaining) >= 2 {
		top := remaining[0]
		oppIdx := 1
		for i := 1; i < len(remaining); i++ {
			if !top.HasPlayed(remaining[i].ID) {
				oppIdx = i
				break
			}
		}
		opp := remaining[oppIdx]
		top.addOpponent(opp.ID)
		opp.addOpponent(top.ID)
		matches = append(matches, Regular(top.ID, opp.ID))

		remaining = removeIndex(remaining, oppIdx)
		remaining = removeIndex(remaining, 0)
	}

	return matches
}

func removeIndex(s []*Team, i int) []*Team {
	return append(s[:i], s[i+1:]...)
}

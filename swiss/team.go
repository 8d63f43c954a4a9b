/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Team represents a participant in the tournament.
type Team struct {
	ID          string
	Name        string
	TotalPoints int
	ReceivedBye bool

	// opponents keeps the order in which rivals were faced; faced is the
	// lookup set for the same ids.
	opponents []string
	faced     map[string]struct{}
}

// TeamSpec is the registration data for one team.
type TeamSpec struct {
	ID   string
	Name string
}

func newTeam(id, name string) *Team {
	return &Team{
		ID:    id,
		Name:  name,
		faced: make(map[string]struct{}),
	}
}

// Opponents returns the ids of the teams already faced, in pairing order.
func (t Team) Opponents() []string {
	return append([]string(nil), t.opponents...)
}

// HasPlayed reports whether the team has already been paired against id.
func (t Team) HasPlayed(id string) bool {
	_, ok := t.faced[id]
	return ok
}

func (t *Team) addOpponent(id string) {
	if t.faced == nil {
		t.faced = make(map[string]struct{})
	}
	if _, ok := t.faced[id]; ok {
		return
	}
	t.faced[id] = struct{}{}
	t.opponents = append(t.opponents, id)
}

// snapshot returns a copy that shares no mutable state with t.
func (t *Team) snapshot() Team {
	cp := *t
	cp.opponents = append([]string(nil), t.opponents...)
	cp.faced = make(map[string]struct{}, len(t.faced))
	for id := range t.faced {
		cp.faced[id] = struct{}{}
	}
	return cp
}

func validateTeamID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: team id is required", ErrValidation)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: team id %q must be an integer (e.g. 10, 50)",
				ErrValidation, id)
		}
	}
	return nil
}

// normalizeTeamName trims and NFC-normalizes name and checks it against the
// naming rules. Names end up on single lines of the saved document, so line
// breaks and the id delimiter are rejected along with digits.
func normalizeTeamName(name string) (string, error) {
	n := norm.NFC.String(strings.TrimSpace(name))
	if n == "" {
		return "", fmt.Errorf("%w: team name is required", ErrValidation)
	}
	for _, r := range n {
		if unicode.IsDigit(r) {
			return "", fmt.Errorf("%w: team name %q must not contain numbers",
				ErrValidation, n)
		}
		if r == '\n' || r == '\r' {
			return "", fmt.Errorf("%w: team name %q must be a single line",
				ErrValidation, n)
		}
	}
	if strings.Contains(n, idDelim) {
		return "", fmt.Errorf("%w: team name %q must not contain %q",
			ErrValidation, n, idDelim)
	}
	return n, nil
}

// RegisterTeam adds a team with zero points to the end of the registry.
// Registration is only open before the first round is paired.
func (t *Tournament) RegisterTeam(id, name string) (Team, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	team, err := t.checkNewTeam(id, name, nil)
	if err != nil {
		return Team{}, err
	}
	t.appendTeam(team)

	return team.snapshot(), nil
}

// RegisterTeams registers every spec in order, or none of them if any spec
// fails validation.
func (t *Tournament) RegisterTeams(specs []TeamSpec) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pending := make(map[string]struct{}, len(specs))
	teams := make([]*Team, 0, len(specs))
	for _, s := range specs {
		team, err := t.checkNewTeam(s.ID, s.Name, pending)
		if err != nil {
			return err
		}
		pending[team.ID] = struct{}{}
		teams = append(teams, team)
	}
	for _, team := range teams {
		t.appendTeam(team)
	}

	return nil
}

func (t *Tournament) checkNewTeam(id, name string,
	pending map[string]struct{}) (*Team, error) {

	if t.round > 0 {
		return nil, fmt.Errorf("%w: registration closed, round %v is paired",
			ErrValidation, t.round)
	}
	id = strings.TrimSpace(id)
	if err := validateTeamID(id); err != nil {
		return nil, err
	}
	if _, ok := t.byID[id]; ok {
		return nil, fmt.Errorf("%w: team id %v already exists", ErrValidation, id)
	}
	if _, ok := pending[id]; ok {
		return nil, fmt.Errorf("%w: team id %v listed twice", ErrValidation, id)
	}
	n, err := normalizeTeamName(name)
	if err != nil {
		return nil, err
	}

	return newTeam(id, n), nil
}

func (t *Tournament) appendTeam(team *Team) {
	t.teams = append(t.teams, team)
	t.byID[team.ID] = team
}

// RemoveTeam deletes a team from the registry. Removal is only legal before
// the first round has been generated.
func (t *Tournament) RemoveTeam(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byID[id]; !ok {
		return fmt.Errorf("%w: team %v", ErrNotFound, id)
	}
	if t.round > 0 {
		return fmt.Errorf("%w: cannot remove team %v after round %v has been paired",
			ErrValidation, id, t.round)
	}
	for i, team := range t.teams {
		if team.ID == id {
			t.teams = append(t.teams[:i], t.teams[i+1:]...)
			break
		}
	}
	delete(t.byID, id)

	return nil
}

// Team returns the team registered under id.
func (t *Tournament) Team(id string) (Team, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	team, ok := t.byID[id]
	if !ok {
		return Team{}, fmt.Errorf("%w: team %v", ErrNotFound, id)
	}
	return team.snapshot(), nil
}

// Teams returns every team in registration order.
func (t *Tournament) Teams() []Team {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Team, 0, len(t.teams))
	for _, team := range t.teams {
		out = append(out, team.snapshot())
	}
	return out
}

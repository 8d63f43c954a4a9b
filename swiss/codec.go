/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const (
	headerRule   = "========================================="
	teamRule     = "----------------------------------------"
	roundPrefix  = "ESTADO DEL TORNEO: RONDA"
	scoredFlag   = "SYSTEM_RONDA_PUNTUADA:"
	teamPrefix   = "EQUIPO:"
	idDelim      = " (ID: "
	pointsPrefix = "> Puntos Totales:"
	rivalsPrefix = "> Rivales:"
	rivalIDs     = "> SYSTEM_IDS_RIVALES:"
	byeFlag      = "> SYSTEM_BYE:"
	regOrder     = "> SYSTEM_ORDEN:"
	pairsMarker  = "=== SYSTEM_PAREOS_ACTUALES ==="
	noRivals     = "Ninguno"
	byeToken     = "BYE"
)

// Encode writes the tournament document to w.
func (t *Tournament) Encode(w io.Writer) error {
	t.mu.Lock()
	data := t.encodeLocked()
	t.mu.Unlock()

	_, err := w.Write(data)
	return err
}

func (t *Tournament) encodeLocked() []byte {
	var sb strings.Builder

	sb.WriteString(headerRule + "\n")
	sb.WriteString(fmt.Sprintf("   %v\n", t.name))
	sb.WriteString(fmt.Sprintf("   %v %v\n", roundPrefix, t.round))
	sb.WriteString(fmt.Sprintf("   %v %v\n", scoredFlag, t.scored))
	sb.WriteString(headerRule + "\n\n")

	order := make(map[string]int, len(t.teams))
	for i, team := range t.teams {
		order[team.ID] = i
	}
	for _, team := range t.ranking() {
		sb.WriteString(fmt.Sprintf("%v %v%v%v)\n", teamPrefix, team.Name, idDelim,
			team.ID))
		sb.WriteString(fmt.Sprintf("  %v %v\n", pointsPrefix, team.TotalPoints))

		var names []string
		for _, oppID := range team.opponents {
			if opp, ok := t.byID[oppID]; ok {
				names = append(names, opp.Name)
			}
		}
		rivals := noRivals
		if len(names) > 0 {
			rivals = strings.Join(names, ", ")
		}
		sb.WriteString(fmt.Sprintf("  %v %v\n", rivalsPrefix, rivals))
		sb.WriteString(fmt.Sprintf("  %v %v\n", rivalIDs,
			strings.Join(team.opponents, ",")))
		sb.WriteString(fmt.Sprintf("  %v %v\n", byeFlag, team.ReceivedBye))
		sb.WriteString(fmt.Sprintf("  %v %v\n", regOrder, order[team.ID]))
		sb.WriteString(teamRule + "\n")
	}

	sb.WriteString("\n" + pairsMarker + "\n")
	for _, m := range t.matches {
		sb.WriteString(m.String() + "\n")
	}

	return []byte(sb.String())
}

// decodedTeam carries the per-team lines that need a second pass.
type decodedTeam struct {
	team     *Team
	rivals   []string
	hasOrder bool
	order    int
	line     int
}

// Decode parses a tournament document. Lines are classified by their
// prefixes; the header lines are only recognized before the first team
// block. Unknown lines are ignored.
func Decode(r io.Reader) (*Tournament, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("swiss.decode: read failed: %w", err)
	}

	t := New("")
	var (
		decoded      []*decodedTeam
		cur          *decodedTeam
		haveName     bool
		haveRound    bool
		inPairs      bool
		haveByeLines bool
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if inPairs {
			m, err := parsePairingLine(line)
			if err != nil {
				return nil, fmt.Errorf("%w: line %v: %v", ErrFormat, lineNum, err)
			}
			t.matches = append(t.matches, m)
			continue
		}

		switch {
		case line == pairsMarker:
			inPairs = true
		case isRule(line):
		case strings.HasPrefix(line, teamPrefix):
			team, err := parseTeamLine(line)
			if err != nil {
				return nil, fmt.Errorf("%w: line %v: %v", ErrFormat, lineNum, err)
			}
			if _, ok := t.byID[team.ID]; ok {
				return nil, fmt.Errorf("%w: line %v: duplicate team id %v",
					ErrFormat, lineNum, team.ID)
			}
			cur = &decodedTeam{team: team, line: lineNum}
			decoded = append(decoded, cur)
			t.byID[team.ID] = team
		case strings.HasPrefix(line, pointsPrefix):
			if cur == nil {
				continue
			}
			rawPoints := line[strings.LastIndex(line, ":")+1:]
			points, err := strconv.Atoi(strings.TrimSpace(rawPoints))
			if err != nil {
				return nil, fmt.Errorf("%w: line %v: invalid points %q", ErrFormat,
					lineNum, strings.TrimSpace(rawPoints))
			}
			cur.team.TotalPoints = points
		case strings.HasPrefix(line, rivalIDs):
			if cur == nil {
				continue
			}
			ids := strings.TrimSpace(strings.TrimPrefix(line, rivalIDs))
			if ids != "" {
				for _, id := range strings.Split(ids, ",") {
					if id = strings.TrimSpace(id); id != "" {
						cur.rivals = append(cur.rivals, id)
					}
				}
			}
		case strings.HasPrefix(line, byeFlag):
			if cur == nil {
				continue
			}
			v, err := strconv.ParseBool(strings.TrimSpace(
				strings.TrimPrefix(line, byeFlag)))
			if err != nil {
				return nil, fmt.Errorf("%w: line %v: invalid bye flag", ErrFormat,
					lineNum)
			}
			cur.team.ReceivedBye = v
			haveByeLines = true
		case strings.HasPrefix(line, regOrder):
			if cur == nil {
				continue
			}
			v, err := strconv.Atoi(strings.TrimSpace(
				strings.TrimPrefix(line, regOrder)))
			if err != nil {
				return nil, fmt.Errorf("%w: line %v: invalid registration order",
					ErrFormat, lineNum)
			}
			cur.order = v
			cur.hasOrder = true
		case strings.HasPrefix(line, rivalsPrefix):
			// names are for people; the ids line is authoritative
		case len(decoded) == 0 && strings.HasPrefix(line, roundPrefix):
			rawRound := strings.TrimSpace(strings.TrimPrefix(line, roundPrefix))
			round, err := strconv.Atoi(rawRound)
			if err != nil || round < 0 {
				return nil, fmt.Errorf("%w: line %v: invalid round %q", ErrFormat,
					lineNum, rawRound)
			}
			t.round = round
			haveRound = true
		case len(decoded) == 0 && strings.HasPrefix(line, scoredFlag):
			v, err := strconv.ParseBool(strings.TrimSpace(
				strings.TrimPrefix(line, scoredFlag)))
			if err != nil {
				return nil, fmt.Errorf("%w: line %v: invalid scored flag", ErrFormat,
					lineNum)
			}
			t.scored = v
		default:
			if !haveName && !haveRound && len(decoded) == 0 {
				t.name = line
				haveName = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("swiss.decode: scan failed: %w", err)
	}

	if !haveRound {
		return nil, fmt.Errorf("%w: missing %q line", ErrFormat, roundPrefix)
	}
	if !inPairs {
		return nil, fmt.Errorf("%w: missing %q marker", ErrFormat, pairsMarker)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%w: no teams found", ErrFormat)
	}

	if err := linkTeams(t, decoded, haveByeLines); err != nil {
		return nil, err
	}

	return t, nil
}

// linkTeams resolves rival ids, restores registration order and checks the
// cross-team invariants of the decoded document.
func linkTeams(t *Tournament, decoded []*decodedTeam, haveByeLines bool) error {
	for _, d := range decoded {
		for _, id := range d.rivals {
			if _, ok := t.byID[id]; !ok {
				return fmt.Errorf("%w: line %v: team %v lists unknown rival %v",
					ErrFormat, d.line, d.team.ID, id)
			}
			if id == d.team.ID {
				return fmt.Errorf("%w: line %v: team %v lists itself as a rival",
					ErrFormat, d.line, id)
			}
			d.team.addOpponent(id)
		}
	}
	for _, d := range decoded {
		for _, id := range d.team.opponents {
			if !t.byID[id].HasPlayed(d.team.ID) {
				return fmt.Errorf("%w: team %v lists rival %v but not the reverse",
					ErrFormat, d.team.ID, id)
			}
		}
	}

	allOrdered := true
	for _, d := range decoded {
		allOrdered = allOrdered && d.hasOrder
	}
	if allOrdered {
		sort.SliceStable(decoded, func(i, j int) bool {
			return decoded[i].order < decoded[j].order
		})
	}
	for _, d := range decoded {
		t.teams = append(t.teams, d.team)
	}

	seen := make(map[string]struct{}, len(t.teams))
	for _, m := range t.matches {
		for _, id := range m.Teams() {
			if _, ok := t.byID[id]; !ok {
				return fmt.Errorf("%w: pairing %v references unknown team %v",
					ErrFormat, m, id)
			}
			if _, ok := seen[id]; ok {
				return fmt.Errorf("%w: team %v is paired twice", ErrFormat, id)
			}
			seen[id] = struct{}{}
		}
		if m.IsBye() && !haveByeLines {
			t.byID[m.Team1].ReceivedBye = true
		}
	}
	if len(t.matches) > 0 && len(seen) != len(t.teams) {
		return fmt.Errorf("%w: current pairings cover %v of %v teams", ErrFormat,
			len(seen), len(t.teams))
	}

	return nil
}

func parseTeamLine(line string) (*Team, error) {
	rest := strings.TrimPrefix(line, teamPrefix)
	idx := strings.Index(rest, idDelim)
	if idx < 0 || !strings.HasSuffix(rest, ")") {
		return nil, fmt.Errorf("malformed team line %q", line)
	}
	name := strings.TrimSpace(rest[:idx])
	id := strings.TrimSpace(strings.TrimSuffix(rest[idx+len(idDelim):], ")"))
	if name == "" || id == "" {
		return nil, fmt.Errorf("malformed team line %q", line)
	}
	if err := validateTeamID(id); err != nil {
		return nil, err
	}
	return newTeam(id, name), nil
}

func parsePairingLine(line string) (Match, error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return Match{}, fmt.Errorf("malformed pairing %q", line)
	}
	t1 := strings.TrimSpace(parts[0])
	t2 := strings.TrimSpace(parts[1])
	if t1 == "" || t2 == "" {
		return Match{}, fmt.Errorf("malformed pairing %q", line)
	}
	if t2 == byeToken {
		return Bye(t1), nil
	}
	if t1 == t2 {
		return Match{}, fmt.Errorf("team %v paired against itself", t1)
	}
	return Regular(t1, t2), nil
}

func isRule(line string) bool {
	return strings.Trim(line, "=") == "" || strings.Trim(line, "-") == ""
}

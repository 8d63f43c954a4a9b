/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
// Package roster reads team registrations from roster files and web pages.
package roster

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/trugo-td/internal"
	"github.com/mikeb26/trugo-td/swiss"
)

var (
	idHeaders   = []string{"id"}
	nameHeaders = []string{"name", "team", "equipo", "nombre"}
	dateHeaders = []string{"registered", "fecha", "date"}
)

// ParseText reads a plain roster: one "id,name" entry per line. Blank lines
// and lines starting with '#' are skipped.
func ParseText(r io.Reader) ([]swiss.TeamSpec, error) {
	var specs []swiss.TeamSpec

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, name, ok := strings.Cut(line, ",")
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("roster.parsetext: line %v: expected id,name but found %q",
				lineNum, line)
		}
		specs = append(specs, swiss.TeamSpec{ID: id, Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("roster.parsetext: %w", err)
	}

	return specs, nil
}

// ParseHTML reads the first table in an HTML page whose header row names an
// id column and a name column. When the table also has a registration date
// column, rows are returned ordered by that date; rows without a date keep
// page order after the dated ones.
func ParseHTML(r io.Reader) ([]swiss.TeamSpec, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("roster.parsehtml: %w", err)
	}

	type entry struct {
		spec swiss.TeamSpec
		date time.Time
	}
	var entries []entry
	var parseErr error
	found := false

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return true
		}
		header := rows.First().Find("th, td")
		idCol, nameCol, dateCol := -1, -1, -1
		header.Each(func(i int, cell *goquery.Selection) {
			label := strings.ToLower(strings.TrimSpace(cell.Text()))
			switch {
			case idCol < 0 && hasLabel(idHeaders, label):
				idCol = i
			case nameCol < 0 && hasLabel(nameHeaders, label):
				nameCol = i
			case dateCol < 0 && hasLabel(dateHeaders, label):
				dateCol = i
			}
		})
		if idCol < 0 || nameCol < 0 {
			return true
		}
		found = true

		rows.Slice(1, rows.Length()).EachWithBreak(func(_ int,
			row *goquery.Selection) bool {

			cells := row.Find("td")
			if cells.Length() <= idCol || cells.Length() <= nameCol {
				return true
			}
			e := entry{spec: swiss.TeamSpec{
				ID:   strings.TrimSpace(cells.Eq(idCol).Text()),
				Name: strings.Join(strings.Fields(cells.Eq(nameCol).Text()), " "),
			}}
			if e.spec.ID == "" && e.spec.Name == "" {
				return true
			}
			if dateCol >= 0 && cells.Length() > dateCol {
				rawDate := strings.TrimSpace(cells.Eq(dateCol).Text())
				date, dateErr := internal.ParseDateOrZero(rawDate)
				if dateErr != nil {
					parseErr = fmt.Errorf("roster.parsehtml: team %v: invalid date %q: %w",
						e.spec.ID, rawDate, dateErr)
					return false
				}
				e.date = date
			}
			entries = append(entries, e)
			return true
		})
		return false
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if !found {
		return nil, fmt.Errorf("roster.parsehtml: no table with %v and %v columns",
			idHeaders, nameHeaders)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].date, entries[j].date
		if di.IsZero() || dj.IsZero() {
			return !di.IsZero() && dj.IsZero()
		}
		return di.Before(dj)
	})

	specs := make([]swiss.TeamSpec, 0, len(entries))
	for _, e := range entries {
		specs = append(specs, e.spec)
	}
	return specs, nil
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

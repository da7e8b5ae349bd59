// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/dustin/go-humanize"
)

const rosterTimeLayout = "2006-01-02 15:04"

// OptionCount is the tally for one choice. Unexpected marks a recorded
// choice that is not among the question's options.
type OptionCount struct {
	Option     string
	Count      int
	Percent    float64
	Unexpected bool
}

// RosterEntry is one respondent line.
type RosterEntry struct {
	RespondentID string
	Name         string
	Handle       string
	Time         string
	Choice       string
}

// Report is the aggregated view of a question's answers.
type Report struct {
	QuestionID string
	Prompt     string
	Total      int
	Counts     []OptionCount
	Roster     []RosterEntry
}

// BuildReport tallies q's answers. Options keep their authored order, with
// duplicates counted once; unexpected choices follow, sorted by text. The
// roster is sorted by name, case-insensitively.
func BuildReport(q models.Question) Report {
	r := Report{QuestionID: q.ID, Prompt: q.Prompt, Total: len(q.Answers)}

	tally := make(map[string]int, len(q.Answers))
	for _, a := range q.Answers {
		tally[a.Choice]++
	}

	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt] {
			continue
		}
		seen[opt] = true
		r.Counts = append(r.Counts, OptionCount{Option: opt, Count: tally[opt]})
	}

	var unexpected []string
	for choice := range tally {
		if !seen[choice] {
			unexpected = append(unexpected, choice)
		}
	}
	sort.Strings(unexpected)
	for _, choice := range unexpected {
		r.Counts = append(r.Counts, OptionCount{Option: choice, Count: tally[choice], Unexpected: true})
	}

	if r.Total > 0 {
		for i := range r.Counts {
			r.Counts[i].Percent = float64(r.Counts[i].Count) / float64(r.Total) * 100
		}
	}

	for id, a := range q.Answers {
		e := RosterEntry{RespondentID: id, Name: a.DisplayName, Handle: a.Handle, Choice: a.Choice}
		if t, ok := a.Time(); ok {
			e.Time = t.Format(rosterTimeLayout)
		}
		r.Roster = append(r.Roster, e)
	}
	sort.Slice(r.Roster, func(i, j int) bool {
		a, b := strings.ToLower(r.Roster[i].Name), strings.ToLower(r.Roster[j].Name)
		if a != b {
			return a < b
		}
		return r.Roster[i].RespondentID < r.Roster[j].RespondentID
	})
	return r
}

// RenderReport formats r as plain text. When the full report is longer than
// limit characters the roster is left out; condensed reports that.
func RenderReport(r Report, limit int) (text string, condensed bool) {
	if r.Total == 0 {
		return fmt.Sprintf("Question %s: %s\n\nNo answers yet.", r.QuestionID, r.Prompt), false
	}

	var head strings.Builder
	fmt.Fprintf(&head, "Results for question %s\n%s\n\n", r.QuestionID, r.Prompt)
	fmt.Fprintf(&head, "Total answers: %s\n\n", humanize.Comma(int64(r.Total)))
	for _, c := range r.Counts {
		label := c.Option
		if c.Unexpected {
			label += " (not an option)"
		}
		fmt.Fprintf(&head, "%s: %d (%.1f%%)\n", label, c.Count, c.Percent)
	}

	var full strings.Builder
	full.WriteString(head.String())
	full.WriteString("\nRespondents:\n")
	for _, e := range r.Roster {
		full.WriteString(rosterLine(e))
		full.WriteByte('\n')
	}

	text = strings.TrimRight(full.String(), "\n")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	return head.String() + "\nToo many respondents to list here. Use /export for the full data.", true
}

func rosterLine(e RosterEntry) string {
	var b strings.Builder
	b.WriteString(e.Name)
	if e.Handle != "" && e.Handle != PlaceholderHandle {
		b.WriteString(" (@" + e.Handle + ")")
	}
	if e.Time != "" {
		b.WriteString(" [" + e.Time + "]")
	}
	b.WriteString(": " + e.Choice)
	return b.String()
}

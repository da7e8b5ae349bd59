// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-ask/models"
)

func question(options []string, answers map[string]models.Answer) models.Question {
	return models.Question{ID: "7", Prompt: "Pick one", Options: options, Answers: answers}
}

func TestBuildReportCounts(t *testing.T) {
	q := question([]string{"A", "B"}, map[string]models.Answer{
		"u1": {Choice: "A", DisplayName: "u1"},
		"u2": {Choice: "B", DisplayName: "u2"},
		"u3": {Choice: "A", DisplayName: "u3"},
	})

	r := BuildReport(q)
	if r.Total != 3 {
		t.Errorf("Total = %d, want 3", r.Total)
	}

	text, condensed := RenderReport(r, 4000)
	if condensed {
		t.Error("small report condensed")
	}
	assertContains(t, text, "A: 2 (66.7%)")
	assertContains(t, text, "B: 1 (33.3%)")
	assertContains(t, text, "Total answers: 3")
}

func TestBuildReportKeepsUnexpectedChoices(t *testing.T) {
	q := question([]string{"B", "A", "B"}, map[string]models.Answer{
		"1": {Choice: "Z"},
		"2": {Choice: "A"},
		"3": {Choice: "Y"},
		"4": {Choice: "Z"},
	})

	r := BuildReport(q)
	want := []OptionCount{
		{Option: "B", Count: 0, Percent: 0},
		{Option: "A", Count: 1, Percent: 25},
		{Option: "Y", Count: 1, Percent: 25, Unexpected: true},
		{Option: "Z", Count: 2, Percent: 50, Unexpected: true},
	}
	if !reflect.DeepEqual(r.Counts, want) {
		t.Errorf("Counts = %+v\nwant %+v", r.Counts, want)
	}
}

func TestBuildReportRoster(t *testing.T) {
	q := question([]string{"A"}, map[string]models.Answer{
		"3": {Choice: "A", DisplayName: "bob", Handle: "bobby", AnsweredAt: "2025-01-02T03:04:05Z"},
		"1": {Choice: "A", DisplayName: "Alice", Handle: "unavailable", AnsweredAt: "garbage"},
		"2": {Choice: "A", DisplayName: "alice", Handle: "al", AnsweredAt: "2024-05-01T10:20:30.123456"},
	})

	text, _ := RenderReport(BuildReport(q), 0)
	lines := strings.Split(text, "\n")
	roster := lines[len(lines)-3:]
	want := []string{
		"Alice: A",
		"alice (@al) [2024-05-01 10:20]: A",
		"bob (@bobby) [2025-01-02 03:04]: A",
	}
	if !reflect.DeepEqual(roster, want) {
		t.Errorf("roster =\n%s\nwant\n%s", strings.Join(roster, "\n"), strings.Join(want, "\n"))
	}
}

func TestRenderReportNoAnswers(t *testing.T) {
	text, condensed := RenderReport(BuildReport(question([]string{"A"}, nil)), 4000)
	if condensed || !strings.Contains(text, "No answers yet.") || strings.Contains(text, "%") {
		t.Errorf("text = %q", text)
	}
}

func TestRenderReportCondensesOversizedRoster(t *testing.T) {
	answers := make(map[string]models.Answer)
	for i := 0; i < 200; i++ {
		answers[fmt.Sprint(i)] = models.Answer{Choice: "A", DisplayName: fmt.Sprintf("Respondent %03d", i)}
	}
	text, condensed := RenderReport(BuildReport(question([]string{"A", "B"}, answers)), 1000)

	if !condensed {
		t.Fatal("expected condensed report")
	}
	if len([]rune(text)) > 1000 {
		t.Errorf("condensed report has %d characters", len([]rune(text)))
	}
	assertContains(t, text, "A: 200 (100.0%)")
	assertContains(t, text, "/export")
	if strings.Contains(text, "Respondent 001") {
		t.Error("condensed report still lists respondents")
	}
}

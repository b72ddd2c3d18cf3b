package gradestore

import (
	"regexp"
	"strconv"
	"strings"
)

// Ordered: "lecture quiz 3" is a Quest, not a Quiz-then-Lecture tie.
var categoryRanks = []struct {
	keyword  string
	priority int
}{
	{"lecture", 1},
	{"quiz", 1},
	{"midterm", 2},
	{"postterm", 3},
	{"posterm", 3}, // historical typo still present in synced titles
	{"project", 4},
	{"lab", 5},
	{"discussion", 6},
}

// categoryPriority gives the summary-sheet ordering rank for a title.
// Unrecognized titles sort last.
func categoryPriority(title string) int {
	lower := strings.ToLower(title)
	for _, r := range categoryRanks {
		if strings.Contains(lower, r.keyword) {
			return r.priority
		}
	}
	return 99
}

// CategoryFor maps an assignment title to its display category.
func CategoryFor(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "lecture") || strings.Contains(lower, "quiz"):
		return "Quest (pre-clobber)"
	case strings.Contains(lower, "midterm"):
		return "Midterm (pre-clobber)"
	case strings.Contains(lower, "postterm") || strings.Contains(lower, "posterm"):
		return "Postterm"
	case strings.Contains(lower, "project"):
		return "Projects"
	case strings.Contains(lower, "lab"):
		return "Labs (before dropping lowest two)"
	case strings.Contains(lower, "discussion"):
		return "Discussions"
	default:
		return "Other"
	}
}

var firstNumber = regexp.MustCompile(`\d+`)

// extractNumber pulls the first embedded number out of a title ("Lab 12:
// Lists" -> 12) for within-category ordering. Titles without one sort as 0.
func extractNumber(title string) int {
	m := firstNumber.FindString(title)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

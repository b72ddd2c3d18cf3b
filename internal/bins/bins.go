// Package bins resolves a course out of the configuration catalog and
// normalizes its grade-bin and assignment-point structures into the
// canonical response served to the UI. Malformed data never produces an
// error here: every bad shape degrades to a default, so the response is
// always well formed.
package bins

import (
	"strings"

	"github.com/berkeley-cs10/gradeview/internal/catalog"
)

// GradeBin pairs a letter grade with its qualifying point range.
type GradeBin struct {
	Grade string `json:"grade"`
	Range string `json:"range"`
}

// Source tag for responses derived from the synced configuration document.
const SourceConfig = "config"

// Response is the canonical grade-bin payload. TotalCoursePoints is always
// the sum of AssignmentPoints values; it is derived at construction time
// and never stored independently.
type Response struct {
	Bins              []GradeBin         `json:"bins"`
	AssignmentPoints  map[string]float64 `json:"assignment_points"`
	TotalCoursePoints float64            `json:"total_course_points"`
	CourseID          *string            `json:"course_id"`
	Source            string             `json:"source"`
}

// Dropped counts entries discarded during normalization. It is reported to
// the caller for logging only and never appears in the response body.
type Dropped struct {
	Bins        int
	Assignments int
}

// defaultBins is the fixed fallback table for the 0-400 point scale. Served
// whenever a course supplies no usable bins.
var defaultBins = []GradeBin{
	{Grade: "A+", Range: "390-400"},
	{Grade: "A", Range: "370-390"},
	{Grade: "A-", Range: "360-370"},
	{Grade: "B+", Range: "350-360"},
	{Grade: "B", Range: "335-350"},
	{Grade: "B-", Range: "320-335"},
	{Grade: "C+", Range: "310-320"},
	{Grade: "C", Range: "290-310"},
	{Grade: "C-", Range: "280-290"},
	{Grade: "D", Range: "240-280"},
	{Grade: "F", Range: "0-240"},
}

// DefaultBins returns a copy of the fallback bin table.
func DefaultBins() []GradeBin {
	out := make([]GradeBin, len(defaultBins))
	copy(out, defaultBins)
	return out
}

// ResolveCourse picks the course the request is for. An empty catalog
// resolves to nil. A blank requested id resolves to the first (default)
// course. Otherwise the catalog is scanned in order for the first course
// whose id or Gradescope course id equals the trimmed request; no match
// falls back to the first course.
func ResolveCourse(courses []catalog.Course, requestedID string) *catalog.Course {
	if len(courses) == 0 {
		return nil
	}
	id := strings.TrimSpace(requestedID)
	if id == "" {
		return &courses[0]
	}
	for i := range courses {
		if courses[i].ID == id || courses[i].GradescopeCourseID() == id {
			return &courses[i]
		}
	}
	return &courses[0]
}

// NormalizeBins maps the document's gradeBins value to an ordered bin
// table. Entries must be records carrying a range plus either a grade or a
// letter field (grade wins when both appear); anything else is dropped
// silently. Absent, non-sequence, empty, or fully-dropped input yields the
// default table. Input order is preserved; no sorting happens here.
func NormalizeBins(raw any) ([]GradeBin, int) {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return DefaultBins(), 0
	}
	out := make([]GradeBin, 0, len(list))
	dropped := 0
	for _, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		grade, gok := field(m, "grade")
		if !gok {
			grade, gok = field(m, "letter")
		}
		rng, rok := field(m, "range")
		if !gok || !rok {
			dropped++
			continue
		}
		out = append(out, GradeBin{Grade: grade, Range: rng})
	}
	if len(out) == 0 {
		return DefaultBins(), dropped
	}
	return out, dropped
}

func field(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	return catalog.ToString(v), true
}

// NormalizeAssignmentPoints maps the document's gradingBreakdown value to
// an assignment-name -> points map. A record shape is trusted as already
// canonical. A sequence is normalized entry by entry: assignment (or name)
// keys the entry, points coerces numerically with 0 on failure, later
// duplicates overwrite earlier ones. Anything else yields an empty map.
func NormalizeAssignmentPoints(raw any) (map[string]float64, int) {
	switch t := raw.(type) {
	case nil:
		return map[string]float64{}, 0
	case map[string]any:
		out := make(map[string]float64, len(t))
		for k, v := range t {
			f, _ := catalog.ToFloat(v)
			out[k] = f
		}
		return out, 0
	case []any:
		out := make(map[string]float64, len(t))
		dropped := 0
		for _, el := range t {
			m, ok := el.(map[string]any)
			if !ok {
				dropped++
				continue
			}
			name, ok := field(m, "assignment")
			if !ok {
				name, _ = field(m, "name")
			}
			name = strings.TrimSpace(name)
			if name == "" {
				dropped++
				continue
			}
			pts, _ := catalog.ToFloat(m["points"])
			out[name] = pts
		}
		return out, dropped
	default:
		return map[string]float64{}, 0
	}
}

// BuildResponse composes resolution and normalization into the canonical
// payload. It never fails: malformed data degrades to defaults, and only
// the catalog load itself (the caller's job) can error.
func BuildResponse(courses []catalog.Course, requestedID string) (Response, Dropped) {
	course := ResolveCourse(courses, requestedID)

	var rawBins, rawBreakdown any
	if course != nil {
		rawBins = course.Buckets.GradeBins
		rawBreakdown = course.Buckets.GradingBreakdown
	}

	gradeBins, droppedBins := NormalizeBins(rawBins)
	points, droppedPts := NormalizeAssignmentPoints(rawBreakdown)

	total := 0.0
	for _, v := range points {
		total += v
	}

	var courseID *string
	switch {
	case course != nil && course.ID != "":
		id := course.ID
		courseID = &id
	case strings.TrimSpace(requestedID) != "":
		id := strings.TrimSpace(requestedID)
		courseID = &id
	}

	return Response{
		Bins:              gradeBins,
		AssignmentPoints:  points,
		TotalCoursePoints: total,
		CourseID:          courseID,
		Source:            SourceConfig,
	}, Dropped{Bins: droppedBins, Assignments: droppedPts}
}

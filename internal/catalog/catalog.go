// Package catalog models the synced course configuration document. The
// document is written by the sync pipeline and edited by the admin settings
// UI, so every field arrives loosely typed; all shape checking happens here,
// once, and downstream code sees plain Go types.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Document is the parsed configuration document. Courses keeps the
// document's order: the first entry is the default course.
type Document struct {
	Courses        []Course
	GlobalSettings map[string]any
}

type Course struct {
	ID           string
	Name         string
	Department   string
	CourseNumber string
	Semester     string
	Year         int
	Instructor   string

	Sources map[string]Source

	Buckets Buckets
}

// Source is a sync-source block (gradescope, prairielearn, iclicker).
type Source struct {
	Enabled     bool
	CourseID    string
	CourseNames []string
}

// Buckets holds the grade-bin and grading-breakdown sub-structures exactly
// as they appear in the document. Their shapes are normalized lazily by the
// bins package, so both stay untyped here.
type Buckets struct {
	GradeBins        any
	GradingBreakdown any
}

// GradescopeCourseID returns the course's Gradescope identifier, or "" when
// none is configured.
func (c Course) GradescopeCourseID() string {
	return c.Sources["gradescope"].CourseID
}

// SourceEnabled reports whether the named sync source is enabled.
func (c Course) SourceEnabled(name string) bool {
	return c.Sources[name].Enabled
}

func buildDocument(root map[string]any) Document {
	doc := Document{}
	if gs, ok := root["global_settings"].(map[string]any); ok {
		doc.GlobalSettings = gs
	}
	list, ok := root["courses"].([]any)
	if !ok {
		return doc
	}
	doc.Courses = make([]Course, 0, len(list))
	for _, entry := range list {
		m, _ := entry.(map[string]any)
		// Non-record entries become empty courses so that the catalog
		// keeps the document's positions (the first entry is the default).
		doc.Courses = append(doc.Courses, buildCourse(m))
	}
	return doc
}

var sourceNames = []string{"gradescope", "prairielearn", "iclicker"}

func buildCourse(m map[string]any) Course {
	c := Course{
		ID:           ToString(m["id"]),
		Name:         ToString(m["name"]),
		Department:   ToString(m["department"]),
		CourseNumber: ToString(m["course_number"]),
		Semester:     ToString(m["semester"]),
		Instructor:   ToString(m["instructor"]),
		Sources:      map[string]Source{},
	}
	if y, ok := ToFloat(m["year"]); ok {
		c.Year = int(y)
	}

	nested, _ := m["sources"].(map[string]any)
	for _, name := range sourceNames {
		src, ok := nested[name].(map[string]any)
		if !ok || len(src) == 0 {
			// Legacy documents keep source blocks at the top level.
			src, _ = m[name].(map[string]any)
		}
		if src != nil {
			c.Sources[name] = buildSource(src)
		}
	}

	if b, ok := m["buckets"].(map[string]any); ok {
		c.Buckets = Buckets{
			GradeBins:        b["gradeBins"],
			GradingBreakdown: b["gradingBreakdown"],
		}
	}
	return c
}

func buildSource(m map[string]any) Source {
	s := Source{CourseID: ToString(m["course_id"])}
	switch v := m["enabled"].(type) {
	case bool:
		s.Enabled = v
	case string:
		s.Enabled = v == "true" || v == "1"
	}
	if names, ok := m["course_names"].([]any); ok {
		for _, n := range names {
			if str := ToString(n); str != "" {
				s.CourseNames = append(s.CourseNames, str)
			}
		}
	}
	return s
}

// ToString coerces a loosely typed document value to its string form.
// Missing values (nil) coerce to "". Numbers render without a trailing
// ".0" so a numeric course id compares equal to its string form.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// ToFloat coerces a loosely typed document value to a number. The second
// return is false when the value is not numeric (including numeric-looking
// strings that fail to parse).
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

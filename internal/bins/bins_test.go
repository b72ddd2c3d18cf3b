package bins_test

import (
	"reflect"
	"testing"

	"github.com/berkeley-cs10/gradeview/internal/bins"
	"github.com/berkeley-cs10/gradeview/internal/catalog"
)

func course(id, gsID string) catalog.Course {
	c := catalog.Course{ID: id, Sources: map[string]catalog.Source{}}
	if gsID != "" {
		c.Sources["gradescope"] = catalog.Source{CourseID: gsID}
	}
	return c
}

func TestResolveCourse(t *testing.T) {
	a := course("a", "111")
	b := course("b", "222")

	tests := []struct {
		name      string
		catalog   []catalog.Course
		requested string
		want      string // expected course id; "" means nil
	}{
		{"empty catalog", nil, "anything", ""},
		{"empty catalog blank id", []catalog.Course{}, "", ""},
		{"blank id gets default", []catalog.Course{a, b}, "", "a"},
		{"whitespace id behaves as blank", []catalog.Course{a, b}, "   ", "a"},
		{"match by id", []catalog.Course{a, b}, "b", "b"},
		{"match by id trims", []catalog.Course{a, b}, "  b  ", "b"},
		{"match by gradescope id", []catalog.Course{a, b}, "222", "b"},
		{"no match falls back to first", []catalog.Course{a, b}, "zzz", "a"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := bins.ResolveCourse(tc.catalog, tc.requested)
			if tc.want == "" {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected course %q, got nil", tc.want)
			}
			if got.ID != tc.want {
				t.Fatalf("expected course %q, got %q", tc.want, got.ID)
			}
		})
	}
}

func TestResolveCourseReturnsCatalogMember(t *testing.T) {
	cat := []catalog.Course{course("a", ""), course("b", "")}
	for _, id := range []string{"", "a", "b", "nope", "  b "} {
		got := bins.ResolveCourse(cat, id)
		if got == nil {
			t.Fatalf("requested %q: got nil from non-empty catalog", id)
		}
		if got != &cat[0] && got != &cat[1] {
			t.Fatalf("requested %q: result is not a member of the catalog", id)
		}
	}
}

func TestNormalizeBinsDefaultTable(t *testing.T) {
	def := bins.DefaultBins()
	if len(def) != 11 {
		t.Fatalf("default table has %d entries, want 11", len(def))
	}
	if def[0] != (bins.GradeBin{Grade: "A+", Range: "390-400"}) {
		t.Fatalf("first default bin = %+v", def[0])
	}
	if def[10] != (bins.GradeBin{Grade: "F", Range: "0-240"}) {
		t.Fatalf("last default bin = %+v", def[10])
	}

	for _, raw := range []any{nil, []any{}, "not a list", 42.0, map[string]any{"grade": "A"}} {
		got, _ := bins.NormalizeBins(raw)
		if !reflect.DeepEqual(got, def) {
			t.Fatalf("NormalizeBins(%v) != default table", raw)
		}
	}
}

func TestNormalizeBins(t *testing.T) {
	t.Run("malformed entries dropped silently", func(t *testing.T) {
		got, dropped := bins.NormalizeBins([]any{
			map[string]any{"grade": "A", "range": "90-100"},
			map[string]any{"foo": 1.0},
			"junk",
		})
		want := []bins.GradeBin{{Grade: "A", Range: "90-100"}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
		if dropped != 2 {
			t.Fatalf("dropped = %d, want 2", dropped)
		}
	})

	t.Run("letter accepted as grade field", func(t *testing.T) {
		got, _ := bins.NormalizeBins([]any{
			map[string]any{"letter": "B+", "range": "87-90"},
		})
		if got[0].Grade != "B+" || got[0].Range != "87-90" {
			t.Fatalf("got %+v", got[0])
		}
	})

	t.Run("grade preferred over letter", func(t *testing.T) {
		got, _ := bins.NormalizeBins([]any{
			map[string]any{"grade": "A", "letter": "B", "range": "90-100"},
		})
		if got[0].Grade != "A" {
			t.Fatalf("grade = %q, want A", got[0].Grade)
		}
	})

	t.Run("input order preserved", func(t *testing.T) {
		got, _ := bins.NormalizeBins([]any{
			map[string]any{"grade": "F", "range": "0-60"},
			map[string]any{"grade": "A", "range": "90-100"},
		})
		if got[0].Grade != "F" || got[1].Grade != "A" {
			t.Fatalf("order not preserved: %+v", got)
		}
	})

	t.Run("all entries dropped falls back to default", func(t *testing.T) {
		got, dropped := bins.NormalizeBins([]any{map[string]any{"foo": 1.0}, 3.0})
		if !reflect.DeepEqual(got, bins.DefaultBins()) {
			t.Fatalf("expected default table, got %+v", got)
		}
		if dropped != 2 {
			t.Fatalf("dropped = %d, want 2", dropped)
		}
	})

	t.Run("numeric values coerce to strings", func(t *testing.T) {
		got, _ := bins.NormalizeBins([]any{
			map[string]any{"grade": 4.0, "range": 100.0},
		})
		if got[0].Grade != "4" || got[0].Range != "100" {
			t.Fatalf("got %+v", got[0])
		}
	})
}

func TestNormalizeAssignmentPoints(t *testing.T) {
	t.Run("absent yields empty map", func(t *testing.T) {
		got, _ := bins.NormalizeAssignmentPoints(nil)
		if len(got) != 0 {
			t.Fatalf("got %+v, want empty", got)
		}
	})

	t.Run("record shape passes through", func(t *testing.T) {
		got, _ := bins.NormalizeAssignmentPoints(map[string]any{"Labs": 60.0, "Quest": 50.0})
		want := map[string]float64{"Labs": 60, "Quest": 50}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})

	t.Run("sequence normalizes with coercion", func(t *testing.T) {
		got, _ := bins.NormalizeAssignmentPoints([]any{
			map[string]any{"assignment": "HW1", "points": "10"},
			map[string]any{"name": "HW2", "points": 5.0},
		})
		want := map[string]float64{"HW1": 10, "HW2": 5}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})

	t.Run("failed coercion defaults to zero, entry kept", func(t *testing.T) {
		got, _ := bins.NormalizeAssignmentPoints([]any{
			map[string]any{"assignment": "HW1", "points": "abc"},
		})
		want := map[string]float64{"HW1": 0}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})

	t.Run("blank names and non-records skipped", func(t *testing.T) {
		got, dropped := bins.NormalizeAssignmentPoints([]any{
			map[string]any{"assignment": "  ", "points": 5.0},
			map[string]any{"points": 5.0},
			"junk",
			map[string]any{"assignment": " HW1 ", "points": 3.0},
		})
		want := map[string]float64{"HW1": 3}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
		if dropped != 3 {
			t.Fatalf("dropped = %d, want 3", dropped)
		}
	})

	t.Run("duplicate names last write wins", func(t *testing.T) {
		got, _ := bins.NormalizeAssignmentPoints([]any{
			map[string]any{"assignment": "HW1", "points": 1.0},
			map[string]any{"assignment": "HW1", "points": 9.0},
		})
		if got["HW1"] != 9 {
			t.Fatalf("HW1 = %v, want 9", got["HW1"])
		}
	})

	t.Run("primitive yields empty map", func(t *testing.T) {
		got, _ := bins.NormalizeAssignmentPoints("nope")
		if len(got) != 0 {
			t.Fatalf("got %+v, want empty", got)
		}
	})
}

func TestBuildResponse(t *testing.T) {
	withBuckets := course("cs10_fa25", "1232070")
	withBuckets.Buckets = catalog.Buckets{
		GradeBins: []any{
			map[string]any{"grade": "A", "range": "90-100"},
			map[string]any{"grade": "B", "range": "80-90"},
		},
		GradingBreakdown: []any{
			map[string]any{"assignment": "Labs", "points": 60.0},
			map[string]any{"assignment": "Quest", "points": "50"},
		},
	}

	t.Run("totals derive from assignment points", func(t *testing.T) {
		resp, _ := bins.BuildResponse([]catalog.Course{withBuckets}, "cs10_fa25")
		sum := 0.0
		for _, v := range resp.AssignmentPoints {
			sum += v
		}
		if resp.TotalCoursePoints != sum || sum != 110 {
			t.Fatalf("total = %v, sum = %v", resp.TotalCoursePoints, sum)
		}
		if resp.Source != bins.SourceConfig {
			t.Fatalf("source = %q", resp.Source)
		}
		if resp.CourseID == nil || *resp.CourseID != "cs10_fa25" {
			t.Fatalf("course_id = %v", resp.CourseID)
		}
		if len(resp.Bins) != 2 {
			t.Fatalf("bins = %+v", resp.Bins)
		}
	})

	t.Run("idempotent over unchanged inputs", func(t *testing.T) {
		first, _ := bins.BuildResponse([]catalog.Course{withBuckets}, "cs10_fa25")
		second, _ := bins.BuildResponse([]catalog.Course{withBuckets}, "cs10_fa25")
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("responses differ:\n%+v\n%+v", first, second)
		}
	})

	t.Run("missing buckets degrade to defaults", func(t *testing.T) {
		resp, _ := bins.BuildResponse([]catalog.Course{course("bare", "")}, "")
		if !reflect.DeepEqual(resp.Bins, bins.DefaultBins()) {
			t.Fatalf("expected default bins")
		}
		if len(resp.AssignmentPoints) != 0 || resp.TotalCoursePoints != 0 {
			t.Fatalf("expected empty points, got %+v total %v", resp.AssignmentPoints, resp.TotalCoursePoints)
		}
	})

	t.Run("empty catalog keeps requested id", func(t *testing.T) {
		resp, _ := bins.BuildResponse(nil, "cs61a")
		if resp.CourseID == nil || *resp.CourseID != "cs61a" {
			t.Fatalf("course_id = %v", resp.CourseID)
		}
		if !reflect.DeepEqual(resp.Bins, bins.DefaultBins()) {
			t.Fatalf("expected default bins")
		}
	})

	t.Run("no course and no request yields null id", func(t *testing.T) {
		resp, _ := bins.BuildResponse(nil, "   ")
		if resp.CourseID != nil {
			t.Fatalf("course_id = %v, want nil", *resp.CourseID)
		}
	})

	t.Run("resolved course without id keeps requested id", func(t *testing.T) {
		resp, _ := bins.BuildResponse([]catalog.Course{course("", "")}, "ghost")
		if resp.CourseID == nil || *resp.CourseID != "ghost" {
			t.Fatalf("course_id = %v", resp.CourseID)
		}
	})

	t.Run("dropped counts surface to caller", func(t *testing.T) {
		c := course("c", "")
		c.Buckets = catalog.Buckets{
			GradeBins:        []any{map[string]any{"grade": "A", "range": "90-100"}, "junk"},
			GradingBreakdown: []any{"junk", map[string]any{"assignment": "HW", "points": 1.0}},
		}
		_, dropped := bins.BuildResponse([]catalog.Course{c}, "c")
		if dropped.Bins != 1 || dropped.Assignments != 1 {
			t.Fatalf("dropped = %+v", dropped)
		}
	})
}

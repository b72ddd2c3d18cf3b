package http

import (
	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/berkeley-cs10/gradeview/internal/catalog"
)

type courseInfo struct {
	ID                 string          `json:"id"`
	GradescopeCourseID string          `json:"gradescope_course_id,omitempty"`
	Name               string          `json:"name"`
	Department         string          `json:"department"`
	CourseNumber       string          `json:"course_number"`
	Semester           string          `json:"semester"`
	Year               int             `json:"year"`
	Instructor         string          `json:"instructor"`
	EnabledSources     map[string]bool `json:"enabled_sources"`
}

type coursesResponse struct {
	Courses []courseInfo `json:"courses"`
	Total   int          `json:"total"`
}

// ListCoursesHandler returns every configured course with its enabled sync
// sources. Course entries without an id stay out of the listing (they are
// unreachable by the UI) but keep their catalog position for bin fallback.
func ListCoursesHandler(catalogPath string, log *zap.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		doc, err := catalog.Load(catalogPath)
		if err != nil {
			log.Error("load course configuration", zap.Error(err))
			writeError(w, nethttp.StatusInternalServerError, "failed to list courses")
			return
		}

		out := coursesResponse{Courses: []courseInfo{}}
		for _, c := range doc.Courses {
			if c.ID == "" {
				continue
			}
			out.Courses = append(out.Courses, courseInfo{
				ID:                 c.ID,
				GradescopeCourseID: c.GradescopeCourseID(),
				Name:               c.Name,
				Department:         c.Department,
				CourseNumber:       c.CourseNumber,
				Semester:           c.Semester,
				Year:               c.Year,
				Instructor:         c.Instructor,
				EnabledSources: map[string]bool{
					"gradescope":   c.SourceEnabled("gradescope"),
					"prairielearn": c.SourceEnabled("prairielearn"),
					"iclicker":     c.SourceEnabled("iclicker"),
				},
			})
		}
		out.Total = len(out.Courses)
		writeJSON(w, nethttp.StatusOK, out)
	}
}

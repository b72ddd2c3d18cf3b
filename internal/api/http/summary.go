package http

import (
	"errors"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/berkeley-cs10/gradeview/internal/catalog"
	"github.com/berkeley-cs10/gradeview/internal/gradestore"
)

// GetSummaryHandler serves the pre-computed summary sheet for a course.
// The path takes the catalog course id; the database is keyed by the
// Gradescope course id, so the catalog entry must carry one.
func GetSummaryHandler(catalogPath string, store *gradestore.Store, log *zap.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		courseID := chi.URLParam(r, "courseID")

		doc, err := catalog.Load(catalogPath)
		if err != nil {
			log.Error("load course configuration",
				zap.String("course_id", courseID), zap.Error(err))
			writeError(w, nethttp.StatusInternalServerError, "failed to load course configuration")
			return
		}

		var course *catalog.Course
		for i := range doc.Courses {
			if doc.Courses[i].ID == courseID {
				course = &doc.Courses[i]
				break
			}
		}
		if course == nil {
			writeError(w, nethttp.StatusNotFound, "course not found: "+courseID)
			return
		}
		gsID := course.GradescopeCourseID()
		if gsID == "" {
			writeError(w, nethttp.StatusBadRequest, "gradescope course id not configured for: "+courseID)
			return
		}

		summary, err := store.Summary(r.Context(), gsID)
		if errors.Is(err, gradestore.ErrCourseNotFound) {
			// Configured but never synced: an empty sheet, not an error.
			log.Warn("course not synced yet",
				zap.String("course_id", courseID), zap.String("gradescope_course_id", gsID))
			writeJSON(w, nethttp.StatusOK, gradestore.EmptySummary())
			return
		}
		if err != nil {
			log.Error("summary query", zap.String("course_id", courseID), zap.Error(err))
			writeError(w, nethttp.StatusInternalServerError, "failed to get summary")
			return
		}
		writeJSON(w, nethttp.StatusOK, summary)
	}
}

package http

import (
	"strings"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/berkeley-cs10/gradeview/internal/bins"
	"github.com/berkeley-cs10/gradeview/internal/catalog"
)

// Handlers only — routes remain in main.go

// GetBinsHandler serves the canonical grade-bin payload for the requested
// course (?courseId=...), or the default course when none is given. The
// catalog is re-read on every request so spreadsheet-driven config changes
// show up without a restart; no snapshot is shared across requests.
func GetBinsHandler(catalogPath string, log *zap.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		courseID := strings.TrimSpace(r.URL.Query().Get("courseId"))

		doc, err := catalog.Load(catalogPath)
		if err != nil {
			// Load/parse failures are the one fault surfaced to the client,
			// and only as an opaque 500. The requested id is for operators.
			log.Error("load course configuration",
				zap.String("course_id", courseID), zap.Error(err))
			writeError(w, nethttp.StatusInternalServerError, "failed to load course configuration")
			return
		}

		resp, dropped := bins.BuildResponse(doc.Courses, courseID)
		if dropped.Bins > 0 || dropped.Assignments > 0 {
			log.Warn("dropped malformed config entries",
				zap.String("course_id", courseID),
				zap.Int("grade_bins", dropped.Bins),
				zap.Int("assignment_points", dropped.Assignments))
		}
		writeJSON(w, nethttp.StatusOK, resp)
	}
}

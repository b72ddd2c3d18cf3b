package http

import (
	"encoding/json"

	nethttp "net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/berkeley-cs10/gradeview/internal/catalog"
)

// GetConfigHandler returns the raw configuration document for the settings
// UI. Served as canonical JSON regardless of the on-disk format.
func GetConfigHandler(catalogPath string, log *zap.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		root, err := catalog.LoadRaw(catalogPath)
		if err != nil {
			log.Error("load course configuration", zap.Error(err))
			writeError(w, nethttp.StatusInternalServerError, "failed to load course configuration")
			return
		}
		writeJSON(w, nethttp.StatusOK, root)
	}
}

// UpdateConfigHandler replaces the configuration document. The body must be
// a JSON object; course entries missing an id get one assigned so the rest
// of the API can address them. The write is atomic.
func UpdateConfigHandler(catalogPath string, log *zap.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var root map[string]any
		if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
			writeError(w, nethttp.StatusBadRequest, "bad json")
			return
		}

		assigned := assignCourseIDs(root)
		if err := catalog.Save(catalogPath, root); err != nil {
			log.Error("save course configuration", zap.Error(err))
			writeError(w, nethttp.StatusInternalServerError, "failed to save course configuration")
			return
		}
		if assigned > 0 {
			log.Info("assigned ids to new course entries", zap.Int("count", assigned))
		}
		writeJSON(w, nethttp.StatusOK, root)
	}
}

func assignCourseIDs(root map[string]any) int {
	courses, ok := root["courses"].([]any)
	if !ok {
		return 0
	}
	assigned := 0
	for _, entry := range courses {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if catalog.ToString(m["id"]) == "" {
			m["id"] = uuid.NewString()
			assigned++
		}
	}
	return assigned
}

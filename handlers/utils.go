package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"gorm.io/gorm"

	"github.com/andrewpaige1/studypal-api/config"
	"github.com/andrewpaige1/studypal-api/generator"
	"github.com/andrewpaige1/studypal-api/logger"
	"github.com/andrewpaige1/studypal-api/models"
)

const maxBodyBytes = 1 << 20

type DBHandler struct {
	*gorm.DB
	Generator   *generator.Generator
	Log         *logger.Logger
	Env         config.Environment
	StorageType string
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a size-limited JSON body into dst. It writes the 400
// response itself and reports false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, "No data provided")
	default:
		writeError(w, http.StatusBadRequest, "Invalid request body")
	}
	return false
}

// fail maps domain errors onto HTTP responses; anything unknown is logged and
// reported as a 500.
func (db *DBHandler) fail(w http.ResponseWriter, fn string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrTierLimit):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		db.Log.Error(fn+": request failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (db *DBHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Endpoint not found")
}

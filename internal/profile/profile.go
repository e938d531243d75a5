package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"AgroSim/internal/auth"
	"AgroSim/internal/logging"
	"AgroSim/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	Repo repo.Repository
}

// GetProfile returns the caller's profile, or the one named by the {id}
// path variable.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID := user.ID
	if idStr, ok := mux.Vars(r)["id"]; ok && idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}
		userID = id
	}

	prof, err := h.Repo.GetProfileByID(r.Context(), userID)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("get profile", zap.Int("profile_id", userID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prof)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"buildestate/internal/middlewares"
	"buildestate/internal/services"
	"buildestate/internal/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (u *UserHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value(middlewares.UserIDKey).(string)
	if !ok {
		log.Error().Msg("User ID not found in context for GetMyProfile")
		utils.SendFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		log.Error().Err(err).Str("user_id_str", userIDStr).Msg("Invalid user ID format in context for GetMyProfile")
		utils.SendFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	user, err := u.userService.GetUserProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.SendFailure(w, http.StatusNotFound, "User not found")
			return
		}
		utils.SendFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"name":     user.Name,
		"mobile":   user.Mobile,
		"location": user.Location,
		"success":  true,
	})
}

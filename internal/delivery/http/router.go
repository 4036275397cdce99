package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferencehub/internal/delivery/http/controllers"
	"conferencehub/internal/delivery/http/middleware"
	"conferencehub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Routes under /conferences, /attendee, /groups, and /users require a Bearer token.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	conferenceController *controllers.ConferenceController,
	attendeeController *controllers.AttendeeController,
	groupController *controllers.GroupController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("POST /auth/login-code/request", userController.RequestLoginCode)
	mux.HandleFunc("POST /auth/login-code/verify", userController.VerifyLoginCode)

	// Users
	mux.HandleFunc("GET /users/me", auth(userController.GetMe))
	mux.HandleFunc("PUT /users/me", auth(userController.UpdateMe))

	// Conferences
	mux.HandleFunc("POST /conferences", auth(conferenceController.CreateConference))
	mux.HandleFunc("GET /conferences/me", auth(conferenceController.ListMyConferences))
	mux.HandleFunc("GET /conferences/{conferenceID}", auth(conferenceController.GetConference))
	mux.HandleFunc("PUT /conferences/{conferenceID}/sync-source", auth(conferenceController.ConfigureSyncSource))
	mux.HandleFunc("POST /conferences/{conferenceID}/sync", auth(conferenceController.Synchronize))

	// Attendee
	mux.HandleFunc("POST /conferences/{conferenceID}/register", auth(attendeeController.Register))
	mux.HandleFunc("POST /conferences/{conferenceID}/check-in", auth(attendeeController.CheckIn))
	mux.HandleFunc("GET /attendee/conferences", auth(attendeeController.ListMyRegisteredConferences))

	// Groups
	mux.HandleFunc("POST /conferences/{conferenceID}/groups", auth(groupController.CreateGroup))
	mux.HandleFunc("GET /conferences/{conferenceID}/groups", auth(groupController.ListGroups))
	mux.HandleFunc("POST /groups/{groupID}/join", auth(groupController.JoinGroup))
	mux.HandleFunc("GET /groups/{groupID}/members", auth(groupController.ListGroupMembers))
	mux.HandleFunc("DELETE /groups/{groupID}/members/me", auth(groupController.LeaveGroup))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

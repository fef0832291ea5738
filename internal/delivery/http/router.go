package http

import (
	"log/slog"
	"net/http"

	"donorhub/internal/delivery/http/controllers"
	"donorhub/internal/delivery/http/middleware"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers bundles every handler group the router mounts.
type Controllers struct {
	Event           *controllers.EventController
	EventFundraiser *controllers.EventFundraiserController
	EventAttendee   *controllers.EventAttendeeController
	Donor           *controllers.DonorController
	User            *controllers.UserController
	Comment         *controllers.CommentController
	Invitation      *controllers.InvitationController
	Task            *controllers.TaskController
	Auth            *controllers.AuthController
}

// NewRouter initializes the HTTP router with all application routes.
// When protect is non-nil it wraps every write route; reads and login stay open.
func NewRouter(c Controllers, protect func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	if protect == nil {
		protect = func(h http.HandlerFunc) http.HandlerFunc { return h }
	}
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("GET /event", c.Event.ListEvents)
	mux.HandleFunc("POST /event", protect(c.Event.CreateEvent))
	mux.HandleFunc("PATCH /event", protect(c.Event.PatchEvent))
	mux.HandleFunc("DELETE /event", protect(c.Event.DeleteEvent))

	mux.HandleFunc("GET /event-fundraiser", c.EventFundraiser.ListEventFundraisers)
	mux.HandleFunc("POST /event-fundraiser", protect(c.EventFundraiser.CreateEventFundraiser))
	mux.HandleFunc("DELETE /event-fundraiser", protect(c.EventFundraiser.DeleteEventFundraiser))

	mux.HandleFunc("GET /event-attendee", c.EventAttendee.ListEventAttendees)
	mux.HandleFunc("POST /event-attendee", protect(c.EventAttendee.CreateEventAttendee))
	mux.HandleFunc("PATCH /event-attendee", protect(c.EventAttendee.PatchEventAttendee))
	mux.HandleFunc("DELETE /event-attendee", protect(c.EventAttendee.DeleteEventAttendee))

	// Invitations and tasks
	mux.HandleFunc("GET /event/{eventID}/roster", c.Invitation.GetRoster)
	mux.HandleFunc("POST /event/{eventID}/invitations/{donorID}/toggle", protect(c.Invitation.ToggleInvitation))
	mux.HandleFunc("GET /event/{eventID}/tasks", c.Task.ListTasks)
	mux.HandleFunc("POST /event/{eventID}/tasks", protect(c.Task.AddTask))
	mux.HandleFunc("PATCH /event/{eventID}/tasks/{taskID}", protect(c.Task.UpdateTask))
	mux.HandleFunc("DELETE /event/{eventID}/tasks/{taskID}", protect(c.Task.DeleteTask))

	// Donors
	mux.HandleFunc("GET /donor", c.Donor.ListDonors)
	mux.HandleFunc("POST /donor", protect(c.Donor.CreateDonor))
	mux.HandleFunc("POST /donor/bulk", protect(c.Donor.CreateDonors))
	mux.HandleFunc("PATCH /donor", protect(c.Donor.PatchDonor))
	mux.HandleFunc("DELETE /donor", protect(c.Donor.DeleteDonor))

	// Users
	mux.HandleFunc("GET /users", c.User.ListUsers)
	mux.HandleFunc("GET /users/role", c.User.GetUserRole)
	mux.HandleFunc("POST /users", protect(c.User.CreateUser))
	mux.HandleFunc("PATCH /users", protect(c.User.PatchUser))
	mux.HandleFunc("DELETE /users", protect(c.User.DeleteUser))

	// Comments
	mux.HandleFunc("GET /comment", c.Comment.ListComments)
	mux.HandleFunc("POST /comment", protect(c.Comment.CreateComment))
	mux.HandleFunc("DELETE /comment", protect(c.Comment.DeleteComment))

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// Wrap applies the middleware chain shared by every route.
// CORS runs first so preflight requests never reach the mux.
func Wrap(mux http.Handler, logger *slog.Logger, allowedOrigins []string) http.Handler {
	var h http.Handler = mux
	h = middleware.Recovery(logger, h)
	h = middleware.LoggingMiddleware(logger, h)
	h = middleware.RequestID(h)
	h = middleware.CORS(allowedOrigins, h)
	return h
}

package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"mnki/internal/auth"
	"mnki/internal/config"
	"mnki/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions *auth.SessionService,
	authHandler *handler.AuthHandler,
	memberHandler *handler.MemberHandler,
	profileHandler *handler.ProfileHandler,
	eventHandler *handler.EventHandler,
	noteHandler *handler.NoteHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authed := sessions.Middleware()

	// Event feed routes
	e.GET("/events", eventHandler.ListEvents)
	e.GET("/eventDetails/:id", eventHandler.GetEvent)
	e.POST("/likeEvent", eventHandler.LikeEvent)
	e.POST("/unlikeEvent", eventHandler.UnlikeEvent)
	e.GET("/likedEvents/:userId", eventHandler.LikedEvents)

	// Event mutations
	admin := auth.RequirePermission(auth.ActionManageEvents)
	e.POST("/events", eventHandler.CreateEvent, authed, admin)
	e.PUT("/events/:id", eventHandler.UpdateEvent, authed, admin)
	e.DELETE("/events/:id", eventHandler.DeleteEvent, authed, admin)

	api := e.Group("/api")
	api.Static("/static", cfg.StaticDir)

	// Auth routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/google", authHandler.GoogleLogin)
	api.POST("/auth/google/callback", authHandler.GoogleCallback)
	api.GET("/auth/me", authHandler.Me, authed)

	// Member routes
	manageMembers := auth.RequirePermission(auth.ActionManageMembers)
	api.GET("/members", memberHandler.ListMembers, authed)
	api.GET("/get-members", memberHandler.ListAll, authed)
	api.GET("/get-member/:id", memberHandler.GetMember)
	api.POST("/add-member", memberHandler.AddMember, authed, manageMembers)
	api.PUT("/update-member/:id", memberHandler.UpdateMember, authed, manageMembers)
	api.DELETE("/delete-member/:id", memberHandler.DeleteMember, authed, manageMembers)

	// Profile routes
	api.GET("/profile", profileHandler.GetProfile, authed)
	api.PUT("/update-profile", profileHandler.UpdateProfile, authed)
	api.POST("/check-phone", profileHandler.CheckPhone, authed)
	api.POST("/change-password", profileHandler.ChangePassword, authed)

	// Note routes
	notes := api.Group("", authed)
	notes.POST("/notes", noteHandler.CreateNote)
	notes.GET("/notes/trainer", noteHandler.ListTrainerNotes)
	notes.GET("/notes/member/:memberId", noteHandler.ListMemberNotes)
	notes.GET("/notes/:id", noteHandler.GetNote)
	notes.PUT("/notes/:id", noteHandler.UpdateNote)
	notes.DELETE("/notes/:id", noteHandler.DeleteNote)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

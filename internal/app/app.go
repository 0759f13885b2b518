package app

import (
	"fmt"
	"happystack/internal/app/deps"
	"happystack/internal/app/services"
	"happystack/internal/http/handlers/auth"
	forgotpassword "happystack/internal/http/handlers/auth/forgot_password"
	login "happystack/internal/http/handlers/auth/log_in"
	resetpassword "happystack/internal/http/handlers/auth/reset_password"
	signup "happystack/internal/http/handlers/auth/sign_up"
	currentuser "happystack/internal/http/handlers/user/current_user"
	updateuser "happystack/internal/http/handlers/user/update_user"
	mw "happystack/internal/http/middleware"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	return &http.Server{
		Handler:           NewRouter(deps, s),
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(deps *deps.Deps, s *services.Services) http.Handler {
	usersRouter := chi.NewRouter()
	usersRouter.Method(http.MethodPost, "/", signup.New(s.SignUp))
	usersRouter.Method(http.MethodPost, "/login", login.New(s.LogIn))
	usersRouter.Method(
		http.MethodPost,
		"/forgot",
		forgotpassword.New(s.RequestPasswordReset, deps.Config.IsTestMode),
	)
	usersRouter.Method(http.MethodPost, "/reset", resetpassword.New(s.RedeemPasswordReset))

	userRouter := chi.NewRouter()
	userRouter.Use(auth.SetAuthTokenToContext)
	userRouter.Method(http.MethodGet, "/", currentuser.New(s.GetCurrentUser))
	userRouter.Method(http.MethodPut, "/", updateuser.New(s.UpdateUser))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(mw.RequestLogger(deps.Logger))
	router.Use(middleware.Recoverer)
	router.Use(mw.SecurityHeaders)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/users", usersRouter)
	router.Mount("/user", userRouter)

	return router
}

package routes

import (
	"github.com/roddesu/updatedsafespace/internal/handlers"
	"github.com/roddesu/updatedsafespace/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	authHandler *handlers.AuthHandler,
	passwordHandler *handlers.PasswordHandler,
	postHandler *handlers.PostHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)

	// Account lifecycle
	router.HandleFunc("/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/verify-otp", authHandler.VerifyOTP).Methods("POST")
	router.HandleFunc("/login", authHandler.Login).Methods("POST")

	// Password reset
	router.HandleFunc("/reset-request", passwordHandler.RequestReset).Methods("POST")
	router.HandleFunc("/reset/{token}", passwordHandler.ResetPassword).Methods("POST")

	// Posts and comments
	router.HandleFunc("/items", postHandler.ListPosts).Methods("GET")
	router.HandleFunc("/items", postHandler.CreatePost).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}/comments", postHandler.ListComments).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/comments", postHandler.CreateComment).Methods("POST")
}

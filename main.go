package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Set properties of the predefined Logger, including
	// the log entry prefix and a flag to disable printing
	// the time, source file, and line number.
	log.SetPrefix("mt/macro-target-go-api: ")
	log.SetFlags(0)

	// .env is optional in production — env vars may come from the platform.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	h := &Handler{
		db:            getDBPool(),
		openAIBaseURL: "https://api.openai.com",
	}
	defer h.db.Close()

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	// The frontend is served from another origin, so the API allows
	// cross-origin calls with the auth header.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"*"},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, c.Handler(router)))
}

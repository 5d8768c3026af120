package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/kugesan/eduquest/internal/app"
	"github.com/kugesan/eduquest/internal/handlers"
	"github.com/kugesan/eduquest/internal/progression"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	engine := progression.NewEngine(service.Store, service.Config.Grading.PassingGrades)

	authHandler := handlers.NewAuthHandler(service)
	taskHandler := handlers.NewTaskHandler(service)
	submissionHandler := handlers.NewSubmissionHandler(service, engine)
	userHandler := handlers.NewUserHandler(service)

	http.HandleFunc("POST /signup", authHandler.HandleSignup)
	http.HandleFunc("POST /login", authHandler.HandleLogin)

	http.HandleFunc("POST /tasks", taskHandler.HandleCreate)
	http.HandleFunc("GET /tasks", taskHandler.HandleList)
	http.HandleFunc("GET /tasks/{id}", taskHandler.HandleGet)
	http.HandleFunc("PUT /tasks/{id}", taskHandler.HandleUpdate)
	http.HandleFunc("DELETE /tasks/{id}", taskHandler.HandleDelete)

	http.HandleFunc("POST /tasks/{id}/submit", submissionHandler.HandleSubmit)
	http.HandleFunc("GET /submissions", submissionHandler.HandleList)
	http.HandleFunc("GET /submissions/file/{id}", submissionHandler.HandleDownload)
	http.HandleFunc("PUT /submissions/{id}/replace", submissionHandler.HandleReplace)
	http.HandleFunc("DELETE /submissions/{id}", submissionHandler.HandleDelete)
	http.HandleFunc("PUT /submissions/{id}/grade", submissionHandler.HandleGrade)

	http.HandleFunc("GET /users", userHandler.HandleList)

	http.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := service.Store.Ping(); err != nil {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting eduquest server on %s", service.Config.Server.Port)
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Eduquest server failed: %v", err)
	}
}

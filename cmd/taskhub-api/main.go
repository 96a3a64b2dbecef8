package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/taskhub-api/internal/config"
	"github.com/dimitrije/taskhub-api/internal/database"
	"github.com/dimitrije/taskhub-api/internal/handlers"
	authmw "github.com/dimitrije/taskhub-api/internal/middleware"
	"github.com/dimitrije/taskhub-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	taskService := services.NewTaskService(db, projectService)
	commentService := services.NewCommentService(db, projectService)
	emailService := services.NewEmailService(cfg.SMTP)
	invitationService := services.NewInvitationService(db, emailService, cfg.BaseURL, cfg.InviteExpiry)

	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	invitationHandler := handlers.NewInvitationHandler(invitationService, projectService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	// Token validity check is public so a redemption page can inspect the
	// link before the visitor authenticates.
	api.Get("/invitations/validate", invitationHandler.Validate)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/users/me", userHandler.EnsureMe)
	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Get("/projects", projectHandler.List)
	protected.Post("/projects", projectHandler.Create)
	protected.Get("/projects/:id", projectHandler.Get)
	protected.Patch("/projects/:id", projectHandler.Update)
	protected.Delete("/projects/:id", projectHandler.Delete)
	protected.Get("/projects/:id/members", projectHandler.GetMembers)
	protected.Post("/projects/:id/members", projectHandler.AddMember)
	protected.Delete("/projects/:id/members/:userId", projectHandler.RemoveMember)

	protected.Get("/projects/:id/tasks", taskHandler.List)
	protected.Post("/projects/:id/tasks", taskHandler.Create)
	protected.Get("/tasks/:id", taskHandler.Get)
	protected.Patch("/tasks/:id", taskHandler.Update)
	protected.Patch("/tasks/:id/status", taskHandler.UpdateStatus)
	protected.Delete("/tasks/:id", taskHandler.Delete)

	protected.Get("/tasks/:id/comments", commentHandler.List)
	protected.Post("/tasks/:id/comments", commentHandler.Create)
	protected.Delete("/comments/:id", commentHandler.Delete)

	protected.Post("/projects/:id/invitations", invitationHandler.Create)
	protected.Get("/projects/:id/invitations", invitationHandler.ListProject)
	protected.Delete("/projects/:id/invitations/:invitationId", invitationHandler.Cancel)
	protected.Get("/invitations", invitationHandler.ListMine)
	protected.Get("/invitations/accept", invitationHandler.Accept)
	protected.Post("/invitations/accept", invitationHandler.Accept)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			if n, err := invitationService.ExpireLapsed(context.Background()); err != nil {
				log.Printf("Failed to expire invitations: %v", err)
			} else if n > 0 {
				log.Printf("Expired %d lapsed invitations", n)
			}
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}

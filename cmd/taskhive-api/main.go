package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/taskhive-api/internal/config"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/handlers"
	authmw "github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/internal/sse"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/dimitrije/taskhive-api/pkg/logger"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	taskStore := store.NewTaskStore(db)
	teamStore := store.NewTeamStore(db)
	shareStore := store.NewShareStore(db)
	userStore := store.NewUserStore(db)
	actionStore := store.NewActionStore(db)
	subtaskStore := store.NewSubtaskStore(db)
	commentStore := store.NewCommentStore(db)
	attachmentStore := store.NewAttachmentStore(db)

	hub := sse.NewHub(log)
	go hub.Run()

	authorizer := services.NewAuthorizer(teamStore, shareStore)

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	tokenService := services.NewTokenService(db)
	emailService := services.NewEmailService(cfg.SMTP)
	userService := services.NewUserService(userStore)
	actionService := services.NewActionService(actionStore, taskStore, authorizer, hub, log)
	taskService := services.NewTaskService(taskStore, userStore, teamStore, shareStore, authorizer, actionService, hub)
	shareService := services.NewShareService(taskStore, teamStore, shareStore, actionService, hub)
	teamService := services.NewTeamService(teamStore, userStore, actionService, hub, emailService, log)
	subtaskService := services.NewSubtaskService(taskStore, subtaskStore, authorizer, actionService, hub)
	commentService := services.NewCommentService(taskStore, commentStore, authorizer, actionService, hub)
	attachmentService := services.NewAttachmentService(taskStore, attachmentStore, authorizer, actionService, hub)

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	shareHandler := handlers.NewShareHandler(shareService)
	teamHandler := handlers.NewTeamHandler(teamService)
	subtaskHandler := handlers.NewSubtaskHandler(subtaskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)
	actionHandler := handlers.NewActionHandler(actionService)
	sseHandler := handlers.NewSSEHandler(hub)

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

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.Me)

	protected.Get("/tasks", taskHandler.List)
	protected.Post("/tasks", taskHandler.Create)
	protected.Get("/tasks/search", taskHandler.Search)
	protected.Get("/tasks/:taskId", taskHandler.Get)
	protected.Patch("/tasks/:taskId", taskHandler.Update)
	protected.Delete("/tasks/:taskId", taskHandler.Delete)
	protected.Post("/tasks/:taskId/assign", taskHandler.Assign)
	protected.Post("/tasks/:taskId/smart-assign", taskHandler.SmartAssign)
	protected.Post("/tasks/:taskId/resolve-conflict", taskHandler.ResolveConflict)

	protected.Get("/tasks/:taskId/shares", shareHandler.GetTaskTeams)
	protected.Post("/tasks/:taskId/shares", shareHandler.ShareTask)
	protected.Patch("/tasks/:taskId/shares/:teamId", shareHandler.UpdatePermissions)
	protected.Delete("/tasks/:taskId/shares/:teamId", shareHandler.Unshare)

	protected.Get("/teams", teamHandler.List)
	protected.Post("/teams", teamHandler.Create)
	protected.Get("/teams/:teamId", teamHandler.Get)
	protected.Patch("/teams/:teamId", teamHandler.Update)
	protected.Delete("/teams/:teamId", teamHandler.Delete)
	protected.Post("/teams/:teamId/members", teamHandler.InviteMember)
	protected.Delete("/teams/:teamId/members/:memberId", teamHandler.RemoveMember)
	protected.Post("/teams/:teamId/leave", teamHandler.Leave)
	protected.Get("/teams/:teamId/tasks", shareHandler.GetTeamTasks)

	protected.Get("/tasks/:taskId/subtasks", subtaskHandler.List)
	protected.Post("/tasks/:taskId/subtasks", subtaskHandler.Add)
	protected.Patch("/subtasks/:subtaskId", subtaskHandler.Update)
	protected.Delete("/subtasks/:subtaskId", subtaskHandler.Delete)

	protected.Get("/tasks/:taskId/comments", commentHandler.List)
	protected.Post("/tasks/:taskId/comments", commentHandler.Add)
	protected.Delete("/comments/:commentId", commentHandler.Delete)

	protected.Get("/tasks/:taskId/attachments", attachmentHandler.List)
	protected.Post("/tasks/:taskId/attachments", attachmentHandler.Add)
	protected.Delete("/attachments/:attachmentId", attachmentHandler.Delete)

	protected.Get("/actions", actionHandler.GetRecent)
	protected.Get("/tasks/:taskId/actions", actionHandler.GetForTask)

	protected.Get("/events", sseHandler.Connect)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("server starting", zap.String("addr", addr))
		if err := app.Run(addr); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
}

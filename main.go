// Package main book lending API.
//
// @title           Book Lending API
// @version         1.0
// @description     book lending service (catalog, borrow/return, borrowed list).
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"booklending/app/echoServer"
	authctrl "booklending/app/echoServer/controller/auth"
	catalogctrl "booklending/app/echoServer/controller/catalog"
	lendingctrl "booklending/app/echoServer/controller/lending"
	"booklending/app/echoServer/validation"
	"booklending/config"
	bookrepo "booklending/repository/book"
	borrowrepo "booklending/repository/borrow"
	catalogsvc "booklending/service/catalog"
	lendingsvc "booklending/service/lending"
	"booklending/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB: one client for the whole process
	db, err := database.New(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	// repos
	br := bookrepo.New(db)
	rr := borrowrepo.New(db)

	// services
	cs := catalogsvc.New(br)
	ls := lendingsvc.New(br, rr)

	// controllers
	v := validator.New()
	catalogC := &catalogctrl.Controller{Svc: cs, V: v, Log: log}
	lendingC := &lendingctrl.Controller{Svc: ls, V: v, Log: log}
	authC := &authctrl.Controller{Secret: cfg.JWTSecret, Secure: cfg.Env == "production", V: v, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e, strings.Split(cfg.AllowedOrigins, ","))
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Catalog: catalogC,
		Lending: lendingC,
		Auth:    authC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		slog.Info("starting server", "port", port)
		if err := e.Start(":" + port); err != nil {
			slog.Info("server stopped", "err", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "err", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.Error("db disconnect failed", "err", err)
	}
}

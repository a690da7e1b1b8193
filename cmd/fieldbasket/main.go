package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"fieldbasket/internal/config"
	"fieldbasket/internal/http/handlers"
	applog "fieldbasket/internal/log"
	"fieldbasket/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and keep internals out of the response
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal",
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 256 << 10 // 256 KiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg)

	api := app.Group("/api")

	// Snapshot polling gets its own, tighter bucket
	snapLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|inv"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.inventory.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/inventory", snapLimiter, deps.InventoryHandler.Snapshot)

	api.Post("/cart/reconcile", deps.CartHandler.Reconcile)
	api.Post("/orders/draft", deps.OrderHandler.Draft)
	api.Post("/orders/confirm", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	}), deps.OrderHandler.Confirm)
	api.Get("/orders/:id", deps.OrderHandler.Query)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "not_found", "message": "no such route"})
	})

	log.Fatal(app.Listen(cfg.Addr))
}

// Package server exposes the roast and insight operations over HTTP. The
// roast endpoint streams plain text chunks as the model produces them; the
// insight endpoint returns a single JSON document.
package server

import (
	"bufio"
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ripperlabs/griller/internal/insight"
	"github.com/ripperlabs/griller/internal/roast"
)

// Roaster streams a roast. Satisfied by *roast.Orchestrator.
type Roaster interface {
	Roast(ctx context.Context, req roast.Request, onChunk func(string) error) (string, error)
}

// Analyzer produces insight cards. Satisfied by *insight.Service.
type Analyzer interface {
	Analyze(ctx context.Context, username string) (*insight.Result, error)
}

type handler struct {
	roaster  Roaster
	analyzer Analyzer
}

// New builds the fiber app with all routes registered.
func New(roaster Roaster, analyzer Analyzer) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(func(c *fiber.Ctx) error {
		slog.Debug("request", "method", c.Method(), "path", c.Path())
		return c.Next()
	})

	h := &handler{roaster: roaster, analyzer: analyzer}
	app.Post("/api/roast", h.roast)
	app.Post("/api/insights", h.insights)
	app.Get("/healthz", h.health)
	return app
}

// roast streams the roast body chunk by chunk. The response is held back
// until the first chunk arrives, so a roast that fails before producing
// anything (probe failure, bad credentials, generation failure) surfaces
// as a generic error status instead of an empty 200. A failed flush means
// the client went away; cancel releases the in-flight generation.
func (h *handler) roast(c *fiber.Ctx) error {
	var req roast.Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username is required")
	}

	// The fasthttp request context outlives the fiber handler and is the
	// cancellation signal for the stream; the fiber.Ctx itself must not be
	// touched after this handler returns.
	ctx := c.Context()
	rctx, cancel := context.WithCancel(ctx)

	chunks := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(chunks)
		_, err := h.roaster.Roast(rctx, req, func(chunk string) error {
			select {
			case chunks <- chunk:
				return nil
			case <-rctx.Done():
				return rctx.Err()
			}
		})
		errc <- err
	}()

	first, ok := <-chunks
	if !ok {
		cancel()
		if err := <-errc; err != nil {
			slog.Error("roast failed", "username", req.Username, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "roast failed")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return nil
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		chunk := first
		for {
			if _, err := w.WriteString(chunk); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
			chunk, ok = <-chunks
			if !ok {
				break
			}
		}
		// Errors after the stream is committed can only be logged; the
		// status line is already on the wire.
		if err := <-errc; err != nil {
			slog.Error("roast failed mid-stream", "username", req.Username, "error", err)
		}
	})
	return nil
}

func (h *handler) insights(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username is required")
	}

	res, err := h.analyzer.Analyze(c.Context(), req.Username)
	if err != nil {
		if errors.Is(err, insight.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "github user not found"})
		}
		slog.Error("insight analysis failed", "username", req.Username, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "analysis failed")
	}
	return c.JSON(res)
}

func (h *handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"wabot/internal/whatsapp"
)

// Bot owns the run loop: it connects the WhatsApp client, starts the
// scheduler, and pumps inbound messages through the router one at a time.
type Bot struct {
	logger    *slog.Logger
	wa        *whatsapp.Client
	router    *Router
	scheduler *Scheduler
}

// NewBot wires the orchestrator from its already-built components.
func NewBot(logger *slog.Logger, wa *whatsapp.Client, router *Router, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		wa:        wa,
		router:    router,
		scheduler: scheduler,
	}
}

// Run starts all components and blocks until the context is cancelled or a
// component fails. Messages are handled sequentially from a single
// goroutine, which keeps session and rate-limiter state race-free.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Connecting to WhatsApp...")
		if err := b.wa.Connect(gCtx); err != nil {
			return fmt.Errorf("whatsapp connect failed: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, disconnecting WhatsApp client...")
		b.wa.Disconnect()
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gCtx.Done():
				return nil
			case msg, ok := <-b.wa.Messages():
				if !ok {
					return nil
				}
				b.router.Handle(gCtx, msg)
			}
		}
	})

	g.Go(func() error {
		b.scheduler.Start()

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := b.scheduler.Shutdown(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

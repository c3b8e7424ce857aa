/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/taskpulse/apiserver/config"
	"github.com/taskpulse/apiserver/internal/logging"
	"github.com/taskpulse/apiserver/internal/mq"
	"github.com/taskpulse/apiserver/internal/services"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail user.registered events from the configured broker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := mq.New(ctx, cfg.MQ)
		if err != nil {
			return fmt.Errorf("connect broker: %w", err)
		}
		defer broker.Close()

		topic := services.NewEventPublisher(broker, cfg.MQ.RegisteredTopic).Topic()
		err = broker.Subscribe(ctx, topic, func(ctx context.Context, msg mq.Message) error {
			event, err := services.DecodeUserRegistered(msg)
			if err != nil {
				// malformed payloads are dropped
				logger.Warn(ctx, "skipping event", "id", msg.ID, "error", err)
				return nil
			}
			logger.Info(ctx, "user registered",
				"user_id", event.UserID,
				"username", event.Username,
				"registered_at", event.RegisteredAt)
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

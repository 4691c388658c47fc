package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vitalance/internal/app/deps"
	"vitalance/internal/app/services"
	"vitalance/internal/core/domain/logging"
	deleteexpiredresettokens "vitalance/internal/core/services/delete_expired_reset_tokens"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)

	ticker := time.NewTicker(deps.Config.PasswordResetSweepPeriod)
	defer ticker.Stop()

	stopCh, closeCh := createChannel()
	defer closeCh()

	log.Info(
		context.Background(),
		"Starting periodic password reset token sweeper.",
		logging.Entry("periodMinutes", (deps.Config.PasswordResetSweepPeriod).Minutes()),
	)

loop:
	for {
		select {
		case <-stopCh:
			log.Info(context.Background(), "Stopping periodic password reset token sweeper.")
			break loop
		case <-ticker.C:
			log.Info(context.Background(), "Launching expired reset token deletion service.")
			result, err := services.DeleteExpiredResetTokens.Run(
				context.Background(),
				deleteexpiredresettokens.Input{},
			)
			if err != nil {
				log.Error(context.Background(), "Deletion service returned an error.", logging.Entry("err", err))
				continue
			}
			log.Info(
				context.Background(),
				"Expired reset tokens deleted.",
				logging.Entry("deletedCount", result.DeletedCount),
			)
		}
	}
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

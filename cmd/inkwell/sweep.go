package main

import (
	"context"

	"inkwell/internal/db"
	"inkwell/internal/mail"
	"inkwell/internal/store"
	"inkwell/internal/tracker"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var sweepCommand = &cli.Command{
	Name:   "sweep-expired",
	Usage:  "Mark overdue, unsigned instances as expired",
	Action: sweepExpired,
}

func sweepExpired(cCtx *cli.Context) error {
	ctx := context.Background()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	trackerSvc := tracker.New(
		logger,
		config,
		store.NewDocumentRepository(pool),
		store.NewInstanceRepository(pool),
		store.NewActivityRepository(pool),
		mail.NewConsoleMailer(logger),
	)

	swept, err := trackerSvc.SweepExpired(ctx)
	if err != nil {
		return err
	}

	logger.WithField("swept", swept).Info("expiration sweep complete")
	return nil
}

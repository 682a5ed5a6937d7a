package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/mail"
	"inkwell/internal/registry"
	"inkwell/internal/server"
	"inkwell/internal/storage"
	"inkwell/internal/store"
	"inkwell/internal/tracker"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}
	s3Client := s3.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	documentRepo := store.NewDocumentRepository(pool)
	instanceRepo := store.NewInstanceRepository(pool)
	activityRepo := store.NewActivityRepository(pool)
	programRepo := store.NewProgramRepository(pool)
	studentRepo := store.NewStudentRepository(pool)
	attendanceRepo := store.NewAttendanceRepository(pool)
	userRepo := store.NewUserRepository(pool)

	var mailer mail.Mailer
	if config.SendgridAPIKey != "" {
		mailer = mail.NewSendgridMailer(config.SendgridAPIKey)
	} else {
		logger.Warn("no sendgrid key configured, using console mailer")
		mailer = mail.NewConsoleMailer(logger)
	}

	registrySvc := registry.New(logger, documentRepo, instanceRepo, activityRepo)
	trackerSvc := tracker.New(logger, config, documentRepo, instanceRepo, activityRepo, mailer)
	files := storage.NewDocumentStorage(s3Client, config.DocumentBucketName)

	srv, err := server.New(
		config,
		logger,
		registrySvc,
		trackerSvc,
		files,
		programRepo,
		studentRepo,
		attendanceRepo,
		userRepo,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

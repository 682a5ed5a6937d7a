package main

import (
	"context"

	"inkwell/internal/db"
	"inkwell/internal/mail"
	"inkwell/internal/registry"
	"inkwell/internal/seed"
	"inkwell/internal/store"
	"inkwell/internal/tracker"
	"inkwell/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:   "seed",
	Usage:  "Seed development data",
	Action: runSeed,
}

func runSeed(cCtx *cli.Context) error {
	ctx := context.Background()

	logger := logrus.New()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := store.NewUserRepository(pool)
	programRepo := store.NewProgramRepository(pool)
	studentRepo := store.NewStudentRepository(pool)
	documentRepo := store.NewDocumentRepository(pool)
	instanceRepo := store.NewInstanceRepository(pool)
	activityRepo := store.NewActivityRepository(pool)

	registrySvc := registry.New(logger, documentRepo, instanceRepo, activityRepo)
	trackerSvc := tracker.New(logger, config, documentRepo, instanceRepo, activityRepo, mail.NewConsoleMailer(logger))

	if err := seed.SeedFakeUsers(ctx, userRepo); err != nil {
		return err
	}

	if err := seed.SeedFakePrograms(ctx, programRepo); err != nil {
		return err
	}

	students, err := seed.SeedFakeStudents(ctx, studentRepo)
	if err != nil {
		return err
	}

	if err := seed.SeedFakeDocuments(ctx, registrySvc, trackerSvc, students); err != nil {
		return err
	}

	docs, err := registrySvc.ListDocuments(ctx, types.DocumentFilter{})
	if err != nil {
		return err
	}
	pp.Println("seeded documents:", len(docs))

	return nil
}

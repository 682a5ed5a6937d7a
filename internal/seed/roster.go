package seed

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/store"
	"inkwell/internal/utils"
	"inkwell/pkg/types"
)

var fakePrograms = []types.Program{
	{ID: "prog_robotics_fall", Name: "Robotics Club (Fall)", Status: types.ProgramStatusActive},
	{ID: "prog_chess_fall", Name: "Chess Club (Fall)", Status: types.ProgramStatusActive},
	{ID: "prog_art_summer", Name: "Summer Art Camp", Status: types.ProgramStatusArchived},
}

type fakeStudentSeed struct {
	FirstName     string
	LastName      string
	ProgramID     string
	GuardianName  string
	GuardianEmail string
}

var fakeStudents = []fakeStudentSeed{
	{FirstName: "Ava", LastName: "Williams", ProgramID: "prog_robotics_fall", GuardianName: "Tonya Williams", GuardianEmail: "tonya.williams+seed@example.com"},
	{FirstName: "Liam", LastName: "Johnson", ProgramID: "prog_robotics_fall", GuardianName: "Marcus Johnson", GuardianEmail: "marcus.johnson+seed@example.com"},
	{FirstName: "Noah", LastName: "Brown", ProgramID: "prog_chess_fall", GuardianName: "Elena Brown", GuardianEmail: "elena.brown+seed@example.com"},
	{FirstName: "Mia", LastName: "Davis", ProgramID: "prog_chess_fall", GuardianName: "Sam Davis", GuardianEmail: "sam.davis+seed@example.com"},
}

func SeedFakePrograms(ctx context.Context, programRepo *store.ProgramRepository) error {
	seeded := 0
	for _, program := range fakePrograms {
		_, err := programRepo.Program(ctx, program.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrProgramNotFound) {
			return fmt.Errorf("failed to fetch program %s: %w", program.ID, err)
		}

		program := program
		if err := programRepo.Create(ctx, &program); err != nil {
			return fmt.Errorf("failed to seed program %s: %w", program.ID, err)
		}
		seeded++
	}

	if seeded > 0 {
		fmt.Printf("seeded %d programs\n", seeded)
	}

	return nil
}

func SeedFakeStudents(ctx context.Context, studentRepo *store.StudentRepository) ([]types.Student, error) {
	existing, err := studentRepo.Students(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	students := make([]types.Student, 0, len(fakeStudents))
	for _, fake := range fakeStudents {
		student := types.Student{
			ID:            utils.NanoID(),
			ProgramID:     fake.ProgramID,
			FirstName:     fake.FirstName,
			LastName:      fake.LastName,
			GuardianName:  utils.StringPtr(fake.GuardianName),
			GuardianEmail: utils.StringPtr(fake.GuardianEmail),
		}
		if err := studentRepo.Create(ctx, &student); err != nil {
			return nil, fmt.Errorf("failed to seed student %s %s: %w", fake.FirstName, fake.LastName, err)
		}
		students = append(students, student)
	}

	fmt.Printf("seeded %d students\n", len(students))
	return students, nil
}

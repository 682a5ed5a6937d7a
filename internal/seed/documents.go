package seed

import (
	"context"
	"fmt"

	"inkwell/internal/registry"
	"inkwell/internal/tracker"
	"inkwell/internal/utils"
	"inkwell/pkg/types"
)

type fakeDocumentSeed struct {
	Title        string
	Description  string
	DocumentType string
	ProgramID    string
}

var fakeDocuments = []fakeDocumentSeed{
	{Title: "Liability Waiver", Description: "Standard activity liability waiver", DocumentType: "waiver", ProgramID: "prog_robotics_fall"},
	{Title: "Photo Release", Description: "Permission to use photos in program materials", DocumentType: "release", ProgramID: "prog_robotics_fall"},
	{Title: "Pickup Authorization", Description: "Authorized pickup contacts", DocumentType: "authorization", ProgramID: "prog_chess_fall"},
}

// SeedFakeDocuments registers sample documents and one instance per guardian,
// exercising the same paths the admin UI drives.
func SeedFakeDocuments(
	ctx context.Context,
	registrySvc *registry.Service,
	trackerSvc *tracker.Service,
	students []types.Student,
) error {
	created := 0
	for _, fake := range fakeDocuments {
		result, err := registrySvc.CreateDocument(ctx, types.CreateDocumentInput{
			Title:              fake.Title,
			Description:        fake.Description,
			DocumentType:       fake.DocumentType,
			OwnerID:            SeedAdminID(),
			OwnerType:          types.OwnerTypeAdmin,
			ProgramID:          fake.ProgramID,
			RequiredSignatures: []string{"guardian"},
		})
		if err != nil {
			return fmt.Errorf("failed to seed document %q: %w", fake.Title, err)
		}
		if result.Duplicate {
			continue
		}
		created++

		for _, student := range students {
			if student.ProgramID != fake.ProgramID {
				continue
			}

			_, err := trackerSvc.CreateInstance(ctx, tracker.CreateInstanceInput{
				DocumentID:     result.DocumentID,
				RecipientID:    student.ID,
				RecipientType:  "guardian",
				RecipientName:  utils.PtrString(student.GuardianName),
				RecipientEmail: utils.PtrString(student.GuardianEmail),
			})
			if err != nil {
				return fmt.Errorf("failed to seed instance for %q: %w", fake.Title, err)
			}
		}
	}

	if created > 0 {
		fmt.Printf("seeded %d documents\n", created)
	}

	return nil
}

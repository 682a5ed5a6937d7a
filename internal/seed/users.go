package seed

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/store"
	"inkwell/internal/utils"
	"inkwell/pkg/types"
)

type fakeUserSeed struct {
	ID         string
	Email      string
	GivenName  string
	FamilyName string
	UserType   types.UserType
}

var fakeUsers = []fakeUserSeed{
	{ID: "11111111-1111-1111-1111-111111111111", Email: "dana.romero+seed1@example.com", GivenName: "Dana", FamilyName: "Romero", UserType: types.UserTypeAdmin},
	{ID: "22222222-2222-2222-2222-222222222222", Email: "marcus.lee+seed2@example.com", GivenName: "Marcus", FamilyName: "Lee", UserType: types.UserTypeInstructor},
	{ID: "33333333-3333-3333-3333-333333333333", Email: "priya.natarajan+seed3@example.com", GivenName: "Priya", FamilyName: "Natarajan", UserType: types.UserTypeInstructor},
	{ID: "44444444-4444-4444-4444-444444444444", Email: "jo.kowalski+seed4@example.com", GivenName: "Jo", FamilyName: "Kowalski", UserType: types.UserTypeInstructor},
}

// SeedAdminID returns the seeded administrator account id, the default owner
// for seeded documents.
func SeedAdminID() string {
	return fakeUsers[0].ID
}

func SeedFakeUsers(ctx context.Context, userRepo *store.UserRepository) error {
	seeded := 0
	for _, fakeUser := range fakeUsers {
		_, err := userRepo.User(ctx, fakeUser.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrUserNotFound) {
			return fmt.Errorf("failed to fetch fake user %s: %w", fakeUser.ID, err)
		}

		user := &types.User{
			ID:         fakeUser.ID,
			UserType:   fakeUser.UserType,
			Email:      fakeUser.Email,
			GivenName:  utils.StringPtr(fakeUser.GivenName),
			FamilyName: utils.StringPtr(fakeUser.FamilyName),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", fakeUser.ID, err)
		}
		seeded++
	}

	if seeded > 0 {
		fmt.Printf("seeded %d users\n", seeded)
	}

	return nil
}

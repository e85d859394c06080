package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/tetherhq/tether/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts the user for an email and password and attempts to create
// a new account on the server.
//
// On success it prints "Account created, you can now log in." and returns
// nil. The password byte slice is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Signup(ctx, email, string(password)); err != nil {
		switch err {
		case common.ErrorAlreadyExists:
			fmt.Println("This email is already registered.")
		case common.ErrorValidation:
			fmt.Println("Email and password are required.")
		default:
			fmt.Println("Signup failed:", err.Error())
		}
		return err
	}

	fmt.Println("Account created, you can now log in.")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tetherhq/tether/internal/common"
)

// Login prompts the user for credentials, exchanges them for a session token
// and caches the token on disk so the session survives restarts.
//
// The password is wiped before returning. A generic failure message is shown
// for bad credentials; the server does not reveal whether the email exists.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		if err == common.ErrorUnauthorized {
			fmt.Println("Invalid credentials.")
		} else {
			fmt.Println("Login failed:", err.Error())
		}
		return err
	}

	a.token = token
	if err := saveToken(a.config.TokenFile, token); err != nil {
		log.Printf("warning: could not cache token: %s", err.Error())
	}

	fmt.Println("Logged in.")
	return nil
}

// Logout forgets the session token, both in memory and on disk. The token
// itself stays valid server-side until it expires; there is no revocation.
func (a *App) Logout(ctx context.Context) error {
	a.token = ""
	a.serverData = nil
	if err := clearToken(a.config.TokenFile); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tetherhq/tether/internal/common"
)

// getMultiline is an indirection for tests.
var getMultiline = GetMultiline

// Sync reads a JSON value from the user and submits it as the new local
// state. The server replaces whatever it stored before — last write wins —
// and echoes the accepted state, which is kept for the show command.
//
// A 401 from the server means the cached token is no longer good; the local
// session is dropped and the user is asked to log in again. No retry.
func (a *App) Sync(ctx context.Context) error {
	text, err := getMultiline(a.reader, "Enter data to sync (JSON)", os.Stdout)
	if err != nil {
		return err
	}

	payload := json.RawMessage(text)
	if !json.Valid(payload) {
		fmt.Println("Not a valid JSON value.")
		return common.ErrorValidation
	}

	serverData, err := a.api.Sync(ctx, a.token, payload)
	if err != nil {
		switch err {
		case common.ErrInvalidToken:
			fmt.Println("Session expired, please log in again.")
			a.token = ""
			_ = clearToken(a.config.TokenFile)
		case common.ErrorValidation:
			fmt.Println("The server rejected the payload.")
		default:
			fmt.Println("Sync failed:", err.Error())
		}
		return err
	}

	a.serverData = serverData
	fmt.Println("Synced.")
	return nil
}

// Show prints the last state acknowledged by the server.
func (a *App) Show(ctx context.Context) error {
	if a.serverData == nil {
		fmt.Println("Nothing synced yet.")
		return nil
	}
	fmt.Println(string(a.serverData))
	return nil
}

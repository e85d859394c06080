package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/tetherhq/tether/internal/client/api"
	"github.com/tetherhq/tether/internal/client/config"
)

// apiIface is the backend surface the CLI commands rely on. The real
// api.Client satisfies it; tests can provide a lightweight stub.
type apiIface interface {
	Signup(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	Sync(ctx context.Context, token string, localData json.RawMessage) (json.RawMessage, error)
	Ping(ctx context.Context) error
}

type App struct {
	config *config.Config
	api    apiIface
	token  string
	// serverData holds the last state the server acknowledged, if any.
	serverData json.RawMessage
	reader     *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	apiClient := api.NewClient(c.ServerEndpointAddr, c.RequestTimeout)

	// A cached token from a previous run keeps the user logged in until the
	// token expires server-side.
	token, err := loadToken(c.TokenFile)
	if err != nil {
		log.Printf("error reading token cache: %s", err.Error())
		token = ""
	}

	return &App{config: c, api: apiClient, token: token, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return "(logged in)"
	}
	return "(not logged in)"
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to Tether CLI (type 'help' for commands)")

	if err := a.api.Ping(ctx); err != nil {
		fmt.Println("Warning: server unreachable:", err.Error())
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

package cli

import (
	"errors"
	"os"
	"strings"
)

// loadToken reads a previously cached session token from path. A missing
// file is not an error; it just means nobody is logged in yet.
func loadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// saveToken caches the session token at path so it survives restarts.
// The file is made readable only by the owner.
func saveToken(path, token string) error {
	return os.WriteFile(path, []byte(token), 0o600)
}

// clearToken removes the cached token. A missing file is fine.
func clearToken(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

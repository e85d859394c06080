package users

import (
	"context"

	"github.com/tetherhq/tether/internal/server/models"
)

// Repository is the credential store: it persists accounts, looks them up by
// login handle or id, and overwrites the synchronized data blob.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateData(ctx context.Context, id int64, data string) error
}

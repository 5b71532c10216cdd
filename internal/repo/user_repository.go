package repo

import (
	"context"

	"github.com/iselbouch1/bouchauto-showcase/internal/models"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
}

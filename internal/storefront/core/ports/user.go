package ports

import (
	"context"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// SetAddressIfEmpty stores addr only when the user has no address yet and
	// reports whether it did.
	SetAddressIfEmpty(ctx context.Context, id string, addr entity.Address) (bool, error)
}

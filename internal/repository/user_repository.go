package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/store"
)

const usersPath = "users"

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Merge(ctx context.Context, id string, fields map[string]any) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// UpdateAtomic applies fn to the user record under the strongest
	// check-then-act guarantee the gateway offers. Gateways without the
	// Transactor capability fall back to read-modify-write, accepting the
	// documented consumption race.
	UpdateAtomic(ctx context.Context, id string, fn func(user *domain.User) error) (*domain.User, error)
}

type userRepository struct {
	gw store.Gateway
}

// NewUserRepository returns a gateway-backed implementation.
func NewUserRepository(gw store.Gateway) UserRepository {
	return &userRepository{gw: gw}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	key, err := r.gw.Append(ctx, usersPath, user)
	if err != nil {
		return err
	}
	user.ID = key
	// Rewrite so the stored record carries its own id.
	return r.gw.Write(ctx, usersPath+"/"+key, user)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.gw.Write(ctx, usersPath+"/"+user.ID, user)
}

func (r *userRepository) Merge(ctx context.Context, id string, fields map[string]any) error {
	return r.gw.Merge(ctx, usersPath+"/"+id, fields)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.gw.Read(ctx, usersPath+"/"+id, &user); err != nil {
		return nil, err
	}
	user.ID = id
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	children, err := r.gw.List(ctx, usersPath)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(email))
	for key, raw := range children {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err != nil {
			continue
		}
		if strings.ToLower(user.Email) == needle {
			user.ID = key
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *userRepository) UpdateAtomic(ctx context.Context, id string, fn func(user *domain.User) error) (*domain.User, error) {
	path := usersPath + "/" + id
	var updated *domain.User

	if txn, ok := r.gw.(store.Transactor); ok {
		err := txn.Update(ctx, path, func(current json.RawMessage) (any, error) {
			if len(current) == 0 {
				return nil, store.ErrNotFound
			}
			var user domain.User
			if err := json.Unmarshal(current, &user); err != nil {
				return nil, err
			}
			user.ID = id
			if err := fn(&user); err != nil {
				return nil, err
			}
			updated = &user
			return &user, nil
		})
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := r.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	children, err := r.gw.List(ctx, usersPath)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(children))
	for _, key := range store.SortedKeys(children) {
		var user domain.User
		if err := json.Unmarshal(children[key], &user); err != nil {
			return nil, err
		}
		user.ID = key
		users = append(users, user)
	}
	return users, nil
}

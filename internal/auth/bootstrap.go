package auth

import (
	"context"
	"fmt"

	"github.com/DhavalSuthar-24/cricbook/config"
	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/user"
	"github.com/DhavalSuthar-24/cricbook/pkg/utils"
	"github.com/rs/zerolog/log"
)

// EnsureAdmin creates the configured admin account when it does not exist
// and promotes an existing account with that username. It is a no-op when
// no admin is configured.
func EnsureAdmin(ctx context.Context, users user.UserRepository, cfg config.AdminConfig) error {
	if cfg.Username == "" {
		return nil
	}

	existing, err := users.GetByUsername(ctx, cfg.Username)
	if err != nil {
		return fmt.Errorf("lookup admin: %w", err)
	}
	if existing != nil {
		if existing.Role == common.RoleAdmin {
			return nil
		}
		existing.Role = common.RoleAdmin
		if err := users.Update(ctx, existing); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		log.Info().Str("username", existing.Username).Msg("Promoted existing user to admin")
		return nil
	}

	hashed, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &user.User{
		Username:   cfg.Username,
		Name:       cfg.Name,
		Password:   hashed,
		Role:       common.RoleAdmin,
		IsVerified: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info().Str("username", admin.Username).Msg("Admin user created")
	return nil
}

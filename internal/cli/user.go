package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Hunteraulo1/f95-france/internal/auth"
	"github.com/Hunteraulo1/f95-france/internal/database"
	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errUserNotFound = errors.New("user not found")

func newUserCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserCreateCommand(a), newUserRoleCommand(a), newUserRevokeCommand(a))
	return cmd
}

func newUserCreateCommand(a *app) *cobra.Command {
	var username, email, password, role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Initialize(a.cfg, a.log)
			if err != nil {
				return err
			}
			u, err := createUser(cmd.Context(), db, username, email, password, models.Role(role))
			if err != nil {
				return err
			}
			a.log.Info("user created", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
			fmt.Fprintln(cmd.OutOrStdout(), u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", string(models.RoleUser), "user, translator, admin or superadmin")
	for _, f := range []string{"username", "email", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newUserRoleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "role <username|email> <role>",
		Short: "Change the role of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Initialize(a.cfg, a.log)
			if err != nil {
				return err
			}
			u, err := setRole(cmd.Context(), db, args[0], models.Role(args[1]))
			if err != nil {
				return err
			}
			a.log.Info("user role changed", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
			return nil
		},
	}
}

func newUserRevokeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <username|email>",
		Short: "End every session of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Initialize(a.cfg, a.log)
			if err != nil {
				return err
			}
			u, err := findUser(cmd.Context(), db, args[0])
			if err != nil {
				return err
			}
			return auth.NewSessions(db, a.cfg.JWTSecret).RevokeUser(cmd.Context(), u.ID)
		},
	}
}

func createUser(ctx context.Context, db *gorm.DB, username, email, password string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || len(password) < 6 {
		return nil, errors.New("username, email and a password of at least 6 characters are required")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		DirectMode:   true,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user %q already exists", username)
		}
		return nil, err
	}
	return u, nil
}

func setRole(ctx context.Context, db *gorm.DB, login string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	u, err := findUser(ctx, db, login)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(u).Update("role", role).Error; err != nil {
		return nil, err
	}
	u.Role = role
	return u, nil
}

func findUser(ctx context.Context, db *gorm.DB, login string) (*models.User, error) {
	login = strings.TrimSpace(login)
	var u models.User
	err := db.WithContext(ctx).Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", errUserNotFound, login)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

package main

import (
	"fmt"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/config"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/spf13/cobra"
)

// newTokenCommand issues an access token for local development and integration setups.
func newTokenCommand() *cobra.Command {
	var claims jwt.Claims
	var role string
	var permissions []string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a staff member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validator.IsValidUUID(claims.BusinessID) {
				return fmt.Errorf("--business must be a valid UUID")
			}
			if claims.StaffID != "" && !validator.IsValidUUID(claims.StaffID) {
				return fmt.Errorf("--staff must be a valid UUID")
			}
			if !validator.IsInSlice(role, staff.Roles) {
				return fmt.Errorf("--role must be one of %v", staff.Roles)
			}
			claims.Role = staff.Role(role)
			for _, p := range permissions {
				if !staff.IsValidPermission(staff.Permission(p)) {
					return fmt.Errorf("unknown permission %q", p)
				}
				claims.Permissions = append(claims.Permissions, staff.Permission(p))
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(claims)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintln(cmd.ErrOrStderr(), "expires at", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&claims.BusinessID, "business", "", "business id (required)")
	cmd.Flags().StringVar(&claims.StaffID, "staff", "", "staff id")
	cmd.Flags().StringVar(&role, "role", string(staff.RoleOwner), "staff role")
	cmd.Flags().StringSliceVar(&permissions, "permission", nil, "extra permission grants")
	_ = cmd.MarkFlagRequired("business")

	return cmd
}

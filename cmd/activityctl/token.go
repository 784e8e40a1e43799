package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lzjever/mbos-activity/internal/api/middleware"
	"github.com/lzjever/mbos-activity/internal/core"
)

var (
	tokenSigningKey string
	tokenIssuer     string
	tokenUserID     string
	tokenName       string
	tokenRoles      []string
	tokenTenantID   string
	tokenSuperAdmin bool
	tokenTTL        time.Duration
)

// callerFromFlags builds the caller a development token describes.
func callerFromFlags() (core.Caller, error) {
	c := core.Caller{FullName: tokenName, Roles: tokenRoles, SuperAdmin: tokenSuperAdmin}
	if tokenUserID == "" {
		c.UserID = uuid.New()
	} else {
		id, err := uuid.Parse(tokenUserID)
		if err != nil {
			return core.Caller{}, fmt.Errorf("--user-id: %w", err)
		}
		c.UserID = id
	}
	if tokenTenantID != "" {
		id, err := uuid.Parse(tokenTenantID)
		if err != nil {
			return core.Caller{}, fmt.Errorf("--tenant-id: %w", err)
		}
		c.TenantID = id
	}
	if !c.InTenant() && !c.SuperAdmin {
		return core.Caller{}, fmt.Errorf("either --tenant-id or --super-admin is required")
	}
	return c, nil
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed bearer token for local development",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenSigningKey == "" {
			return fmt.Errorf("--signing-key (or ACTIVITY_JWT_SIGNING_KEY) is required")
		}
		caller, err := callerFromFlags()
		if err != nil {
			return err
		}
		tok, err := middleware.NewAuthenticator(tokenSigningKey, tokenIssuer).Issue(caller, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSigningKey, "signing-key", os.Getenv("ACTIVITY_JWT_SIGNING_KEY"), "HS256 signing key")
	tokenCmd.Flags().StringVar(&tokenIssuer, "issuer", os.Getenv("ACTIVITY_JWT_ISSUER"), "Token issuer")
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "User id (random when empty)")
	tokenCmd.Flags().StringVar(&tokenName, "name", "Local Operator", "Actor full name")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "roles", nil, "Actor roles")
	tokenCmd.Flags().StringVar(&tokenTenantID, "tenant-id", "", "Tenant the caller acts in")
	tokenCmd.Flags().BoolVar(&tokenSuperAdmin, "super-admin", false, "Act as super admin outside any tenant")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

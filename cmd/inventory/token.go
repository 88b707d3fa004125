package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartsupply/inventory-service/internal/auth"
	"github.com/smartsupply/inventory-service/internal/domain"
)

func newTokenCmd() *cobra.Command {
	var (
		email string
		name  string
		role  string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed bearer token for local use",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			tok, err := auth.NewIssuer(cfg.Auth).Issue(domain.Principal{Email: email, Name: name, Role: r}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "subject email (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "ADMIN or USER")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default AUTH_TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

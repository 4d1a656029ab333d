package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waledger/waledger/internal/db"
	dbsqlc "github.com/waledger/waledger/internal/db/sqlc"
	"github.com/waledger/waledger/internal/operators"
)

func newOperatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Manage operator accounts",
	}

	var username, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an operator that can read the message log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			conn, err := db.Open(ctx, cfg.Postgres)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer conn.Close()

			op, err := operators.NewService(cliLogger(cfg), dbsqlc.New(conn)).Create(ctx, username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "operator %s created (%s)\n", op.Username, op.ID)
			return nil
		},
	}
	create.Flags().StringVarP(&username, "username", "u", "", "operator username")
	create.Flags().StringVarP(&password, "password", "p", "", "operator password")

	cmd.AddCommand(create)
	return cmd
}

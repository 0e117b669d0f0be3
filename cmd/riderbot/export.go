package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridermall/riderbot/config"
	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/requests"
)

func newExportCmd() *cobra.Command {
	var (
		serviceID string
		status    string
		userID    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump service requests as CSV to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			return requests.ExportCSV(ctx, store, requests.ListOptions{
				ServiceID: dialogx.ServiceID(serviceID),
				Status:    dialogx.RequestStatus(status),
				UserID:    userID,
			}, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&serviceID, "service", "", "filter by service id")
	cmd.Flags().StringVar(&status, "status", "", "filter by request status")
	cmd.Flags().StringVar(&userID, "user", "", "filter by customer phone")

	return cmd
}

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
)

func newRecordsCommand(a *app) *cobra.Command {
	var args dto.ListTransactionsArgs

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print one upstream page of transactions, ungrouped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			args.CardToken = a.card()
			result, err := svc.ListTransactions(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("listing transactions: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&args.StartingAfter, "after", "", "return records after this token")
	cmd.Flags().StringVar(&args.EndingBefore, "before", "", "return records before this token")
	cmd.Flags().IntVar(&args.Page, "page", 1, "page number, used when no cursor is given")
	cmd.Flags().IntVar(&args.Limit, "limit", dto.DefaultPageSize, "records per page (max 100)")
	cmd.Flags().StringVar(&args.Result, "result", "", "APPROVED or DECLINED")
	cmd.Flags().StringVar(&args.Status, "status", "", "upstream status filter")

	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Stream every normalized transaction as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			stream, err := svc.Stream(cmd.Context(), a.card())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for batch, err := range stream {
				if err != nil {
					return fmt.Errorf("streaming transactions: %w", err)
				}
				for _, tx := range batch {
					if err := enc.Encode(tx); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

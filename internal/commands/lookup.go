package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
)

func newGroupCommand(a *app) *cobra.Command {
	var groupBy string

	cmd := &cobra.Command{
		Use:   "group <transaction-id>",
		Short: "Print a single transaction as a group of one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			group, err := svc.Get(cmd.Context(), args[0], dto.GetGroupArgs{
				GroupBy:   dto.GroupBy(groupBy),
				CardToken: a.card(),
			})
			if err != nil {
				return fmt.Errorf("looking up transaction: %w", err)
			}
			if group == nil {
				return fmt.Errorf("transaction %s not found", args[0])
			}
			return printJSON(cmd.OutOrStdout(), group)
		},
	}

	cmd.Flags().StringVar(&groupBy, "group-by", string(dto.GroupByMerchant), "merchant, mcc or currency")
	return cmd
}

func newLabelCommand(a *app) *cobra.Command {
	var groupBy string

	cmd := &cobra.Command{
		Use:   "label <label>",
		Short: "Print the group with the given label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			group, err := svc.GetGroup(cmd.Context(), args[0], dto.GetGroupArgs{
				GroupBy:   dto.GroupBy(groupBy),
				CardToken: a.card(),
			})
			if err != nil {
				return fmt.Errorf("looking up group: %w", err)
			}
			if group == nil {
				return fmt.Errorf("group %q not found", args[0])
			}
			return printJSON(cmd.OutOrStdout(), group)
		},
	}

	cmd.Flags().StringVar(&groupBy, "group-by", string(dto.GroupByMerchant), "merchant, mcc or currency")
	return cmd
}

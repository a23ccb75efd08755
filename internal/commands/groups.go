package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
)

func newGroupsCommand(a *app) *cobra.Command {
	var groupBy string
	var page, limit int

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Print one page of transaction groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			result, err := svc.Find(cmd.Context(), dto.FindGroupsArgs{
				GroupBy:   dto.GroupBy(groupBy),
				Page:      page,
				Limit:     limit,
				CardToken: a.card(),
			})
			if err != nil {
				return fmt.Errorf("finding groups: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&groupBy, "group-by", string(dto.GroupByMerchant), "merchant, mcc or currency")
	cmd.Flags().IntVar(&page, "page", 1, "page of groups, starting at 1")
	cmd.Flags().IntVar(&limit, "limit", dto.DefaultPageSize, "groups per page (max 50)")

	return cmd
}

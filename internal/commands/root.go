package commands

import (
	"context"
	"io"
	"iter"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
	"github.com/GregMSThompson/lithic-dashboard/internal/models"
)

// Service is the transaction surface the CLI reads from.
type Service interface {
	Find(ctx context.Context, args dto.FindGroupsArgs) (dto.GroupsResult, error)
	Get(ctx context.Context, transactionID string, args dto.GetGroupArgs) (*dto.TransactionGroup, error)
	GetGroup(ctx context.Context, label string, args dto.GetGroupArgs) (*dto.TransactionGroup, error)
	ListTransactions(ctx context.Context, args dto.ListTransactionsArgs) (dto.TransactionsResult, error)
	Stream(ctx context.Context, cardToken *string) (iter.Seq2[[]models.Transaction, error], error)
}

// ServiceFactory builds the service on first use, so --help and flag errors
// never need credentials.
type ServiceFactory func(ctx context.Context) (Service, io.Closer, error)

type app struct {
	newService ServiceFactory
	svc        Service
	closer     io.Closer
	cardToken  string
}

// service returns the lazily built Service.
func (a *app) service(cmd *cobra.Command) (Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	svc, closer, err := a.newService(cmd.Context())
	a.closer = closer
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// card returns the --card flag, or nil so the configured default applies.
func (a *app) card() *string {
	if a.cardToken == "" {
		return nil
	}
	return &a.cardToken
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(newService ServiceFactory) *cobra.Command {
	rootCmd, _ := newRootCommand(newService)
	return rootCmd
}

// Execute runs the CLI with args and releases whatever the service factory
// opened, whether or not the command succeeded.
func Execute(ctx context.Context, newService ServiceFactory, args []string) error {
	rootCmd, a := newRootCommand(newService)
	rootCmd.SetArgs(args)
	return execute(ctx, rootCmd, a)
}

func execute(ctx context.Context, rootCmd *cobra.Command, a *app) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newRootCommand(newService ServiceFactory) (*cobra.Command, *app) {
	a := &app{newService: newService}

	rootCmd := &cobra.Command{
		Use:   "lithic-dashboard",
		Short: "Group and page through Lithic card transactions",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&a.cardToken, "card", "", "card token (defaults to LITHICCARDTOKEN)")

	rootCmd.AddCommand(newGroupsCommand(a))
	rootCmd.AddCommand(newGroupCommand(a))
	rootCmd.AddCommand(newLabelCommand(a))
	rootCmd.AddCommand(newRecordsCommand(a))
	rootCmd.AddCommand(newExportCommand(a))

	return rootCmd, a
}

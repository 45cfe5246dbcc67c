package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/broker-engine/internal/store"
	"github.com/iwvelando/broker-engine/pkg/id"
	"github.com/iwvelando/broker-engine/pkg/output"
	"github.com/spf13/cobra"
)

func newQuotesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Query the quote journal",
		Long: `Query journaled quotes from the SQLite database.

Subcommands:
  list - List recent quotes, newest first
  get  - Show a single quote by ID

Examples:
  broker-engine quotes list --kind shipping --limit 10
  broker-engine quotes get 01J0Z3NDEKTSV4RRFFQ69G5FAV`,
	}
	cmd.AddCommand(newQuotesListCmd(a), newQuotesGetCmd(a))
	return cmd
}

func newQuotesListCmd(a *app) *cobra.Command {
	var (
		kind  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var k store.Kind
			if kind != "" {
				parsed, ok := store.ParseKind(kind)
				if !ok {
					return fmt.Errorf("unknown quote kind %q", kind)
				}
				k = parsed
			}

			s, err := a.requireStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			quotes, err := s.List(cmd.Context(), k, limit)
			if err != nil {
				return err
			}
			fields := make([]output.Field, 0, len(quotes))
			for _, q := range quotes {
				fields = append(fields, output.Field{
					Label: q.ID,
					Value: fmt.Sprintf("%s %s %s", q.CreatedAt.Format(time.RFC3339), q.Kind, q.Currency),
				})
			}
			output.Fields(cmd.OutOrStdout(), a.conf.Output.Format, "Quotes", fields)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only list quotes of this kind")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of quotes")
	return cmd
}

func newQuotesGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <quote-id>",
		Short: "Show a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !id.Valid(args[0]) {
				return fmt.Errorf("malformed quote ID %q", args[0])
			}
			s, err := a.requireStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			q, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			output.Fields(cmd.OutOrStdout(), a.conf.Output.Format, "Quote", []output.Field{
				{Label: "ID", Value: q.ID},
				{Label: "Kind", Value: string(q.Kind)},
				{Label: "Currency", Value: q.Currency},
				{Label: "Created", Value: q.CreatedAt.Format(time.RFC3339)},
				{Label: "Request", Value: string(q.Request)},
				{Label: "Result", Value: string(q.Result)},
			})
			return nil
		},
	}
}

func (a *app) requireStore(cmd *cobra.Command) (*store.Store, error) {
	s, err := a.openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("quote journal is disabled (storage.dbPath is empty)")
	}
	return s, nil
}

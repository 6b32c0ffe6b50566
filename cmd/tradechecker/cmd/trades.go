package cmd

import (
	"errors"
	"fmt"

	"trade-checker-go/internal/schema"
	"trade-checker-go/internal/service"

	"github.com/spf13/cobra"
)

func newRecordCmd(opts *options) *cobra.Command {
	var strategy, params, result, comments string

	c := &cobra.Command{
		Use:   "record",
		Short: "Record a labeled trade",
		Example: `  tradechecker record -s "Strategy A" -p "yny nyy nnn yyy nny" -r Win -m "clean break"
  tradechecker record -s "Strategy B" -p "p1=y,p2=n,..." -r "Partial Loss"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := schema.Parse(params)
			if err != nil {
				return err
			}
			return opts.run(func(s *session) error {
				rec, err := s.checker.Save(cmd.Context(), service.SaveRequest{
					Strategy:   strategy,
					Parameters: p,
					Result:     result,
					Comments:   comments,
				})
				if err != nil {
					return err
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), rec)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Trade saved successfully! (%s, %s, %s)\n", rec.ID, rec.Strategy, rec.Result)
				return nil
			})
		},
	}

	c.Flags().StringVarP(&strategy, "strategy", "s", "", "strategy name")
	c.Flags().StringVarP(&params, "params", "p", "", "15 parameter values, e.g. \"yny nyy nnn yyy nny\"")
	c.Flags().StringVarP(&result, "result", "r", "", "trade result, e.g. Win, Loss, Break Even")
	c.Flags().StringVarP(&comments, "comment", "m", "", "optional comment")
	_ = c.MarkFlagRequired("strategy")
	_ = c.MarkFlagRequired("params")
	_ = c.MarkFlagRequired("result")
	return c
}

func newCheckCmd(opts *options) *cobra.Command {
	var strategy, params string

	c := &cobra.Command{
		Use:     "check",
		Short:   "Show how the same setup played out before",
		Example: `  tradechecker check -s "Strategy A" -p "yny nyy nnn yyy nny"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := schema.Parse(params)
			if err != nil {
				return err
			}
			return opts.run(func(s *session) error {
				report, err := s.checker.Check(cmd.Context(), service.CheckRequest{Strategy: strategy, Parameters: p})
				if err != nil {
					return err
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				printMatchReport(cmd.OutOrStdout(), strategy, p, report)
				return nil
			})
		},
	}

	c.Flags().StringVarP(&strategy, "strategy", "s", "", "strategy name")
	c.Flags().StringVarP(&params, "params", "p", "", "15 parameter values")
	_ = c.MarkFlagRequired("strategy")
	_ = c.MarkFlagRequired("params")
	return c
}

func newListCmd(opts *options) *cobra.Command {
	var strategy string

	c := &cobra.Command{
		Use:   "list",
		Short: "List recorded trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(s *session) error {
				trades, err := s.checker.Trades(cmd.Context(), strategy)
				if err != nil {
					return err
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), trades)
				}
				printTrades(cmd.OutOrStdout(), trades)
				return nil
			})
		},
	}

	c.Flags().StringVarP(&strategy, "strategy", "s", "", "only this strategy")
	return c
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a single trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(s *session) error {
				if err := s.checker.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Trade %s deleted\n", args[0])
				return nil
			})
		},
	}
}

func newClearCmd(opts *options) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded trade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("this deletes all trade history and cannot be undone; pass --yes to confirm")
			}
			return opts.run(func(s *session) error {
				if err := s.checker.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All trades cleared")
				return nil
			})
		},
	}

	c.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing all data")
	return c
}

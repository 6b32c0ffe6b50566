package cmd

import (
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var strategy string
	var verbose bool

	c := &cobra.Command{
		Use:   "history",
		Short: "Group past trades by parameter pattern, most frequent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(s *session) error {
				groups, err := s.checker.History(cmd.Context(), strategy)
				if err != nil {
					return err
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), groups)
				}
				printPatternGroups(cmd.OutOrStdout(), groups, verbose)
				return nil
			})
		},
	}

	c.Flags().StringVarP(&strategy, "strategy", "s", "", "only this strategy")
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "list the trades of each pattern, newest first")
	return c
}

func newStatsCmd(opts *options) *cobra.Command {
	var strategy string

	c := &cobra.Command{
		Use:   "stats",
		Short: "Show summary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(s *session) error {
				stats, err := s.checker.Statistics(cmd.Context(), strategy)
				if err != nil {
					return err
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), stats)
				}
				printStatistics(cmd.OutOrStdout(), strategy, stats)
				return nil
			})
		},
	}

	c.Flags().StringVarP(&strategy, "strategy", "s", "", "only this strategy")
	return c
}

func newParamsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Describe the 15 setup parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(s *session) error {
				info, err := s.checker.Schema(cmd.Context())
				if err != nil {
					return err
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), info.Groups)
				}
				printSchema(cmd.OutOrStdout(), info)
				return nil
			})
		},
	}
}

func newStrategiesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List configured strategies, strategies seen in history and result options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(s *session) error {
				info, err := s.checker.Schema(cmd.Context())
				if err != nil {
					return err
				}
				stats, err := s.checker.Statistics(cmd.Context(), "")
				if err != nil {
					return err
				}
				out := strategyList{
					Configured: info.Strategies,
					Recorded:   stats.Strategies,
					Results:    info.Results,
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				printStrategies(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

type strategyList struct {
	Configured []string `json:"configured"`
	Recorded   []string `json:"recorded"`
	Results    []string `json:"results"`
}

package main

import (
	"fmt"

	"socialgraph/application/queries"
	querybus "socialgraph/application/queries/bus"
	"socialgraph/infrastructure/persistence/dynamodb"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "socialgraph",
		Short:        "Friendship graph and feed analytics over a snapshot",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.snapshot, "snapshot", "", "YAML or JSON snapshot of users and posts")
	flags.StringVar(&opts.configFile, "config", "", "YAML file whose domain section overrides the tunables")
	flags.StringVar(&opts.environment, "environment", "default", "environment whose domain defaults apply")
	flags.StringVar(&opts.now, "now", "", "RFC3339 instant used as the current time for scoring")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		queryCmd(opts, "path <from> <to>", "Shortest friendship path between two users", 2,
			func(args []string, _ int) querybus.Query {
				return queries.FindConnectionQuery{UserID: args[0], TargetUserID: args[1]}
			}, askAs[*queries.FindConnectionResult]),
		queryCmd(opts, "mutual <user> <other>", "Friends two users have in common", 2,
			func(args []string, _ int) querybus.Query {
				return queries.GetMutualFriendsQuery{UserID: args[0], OtherUserID: args[1]}
			}, askAs[*queries.GetMutualFriendsResult]),
		withLimit(queryCmd(opts, "suggest <user>", "Friend-of-friend suggestions", 1,
			func(args []string, limit int) querybus.Query {
				return queries.SuggestFriendsQuery{UserID: args[0], Limit: limit}
			}, askAs[*queries.SuggestFriendsResult])),
		queryCmd(opts, "communities", "Partition users into connected communities", 0,
			func([]string, int) querybus.Query {
				return queries.DetectCommunitiesQuery{}
			}, askAs[*queries.DetectCommunitiesResult]),
		queryCmd(opts, "backbone", "Minimum spanning forest of the friendship graph", 0,
			func([]string, int) querybus.Query {
				return queries.GetFriendshipBackboneQuery{}
			}, askAs[*queries.GetFriendshipBackboneResult]),
		feedCmd(opts),
		withLimit(queryCmd(opts, "trending", "Highest scoring public posts", 0,
			func(_ []string, limit int) querybus.Query {
				return queries.GetTrendingPostsQuery{Limit: limit}
			}, askAs[*queries.GetTrendingPostsResult])),
		seedCmd(opts),
	)

	return rootCmd
}

type asker func(cmd *cobra.Command, e *engine, query querybus.Query) error

func askAs[R any](cmd *cobra.Command, e *engine, query querybus.Query) error {
	return ask[R](cmd.Context(), e, cmd.OutOrStdout(), query)
}

// queryCmd builds a subcommand that dispatches one query and prints the result
func queryCmd(
	opts *options,
	use, short string,
	nargs int,
	build func(args []string, limit int) querybus.Query,
	run asker,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := intFlag(cmd, "limit")
			if err != nil {
				return err
			}
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			defer func() { _ = e.logger.Sync() }()

			return run(cmd, e, build(args, limit))
		},
	}
}

func withLimit(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().Int("limit", 0, "maximum number of results (0 selects the configured default)")
	return cmd
}

// intFlag reads an int flag that may not be defined on cmd
func intFlag(cmd *cobra.Command, name string) (int, error) {
	if cmd.Flags().Lookup(name) == nil {
		return 0, nil
	}
	return cmd.Flags().GetInt(name)
}

func feedCmd(opts *options) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "feed <user>",
		Short: "One page of a user's ranked feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			defer func() { _ = e.logger.Sync() }()

			query := queries.GetRankedFeedQuery{UserID: args[0], Page: page, Limit: limit}
			return askAs[*queries.GetRankedFeedResult](cmd, e, query)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (0 selects the configured default)")
	return cmd
}

func seedCmd(opts *options) *cobra.Command {
	var table, region, endpoint string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the snapshot into a DynamoDB table in the layout the API reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := opts.loadSnapshot()
			if err != nil {
				return err
			}
			logger, err := opts.newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			awsCfg, err := awsconfig.LoadDefaultConfig(cmd.Context(), awsconfig.WithRegion(region))
			if err != nil {
				return fmt.Errorf("failed to load AWS configuration: %w", err)
			}
			client := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
				if endpoint != "" {
					o.BaseEndpoint = aws.String(endpoint)
				}
			})

			written, err := dynamodb.NewSeeder(client, table, logger).Seed(cmd.Context(), snapshot.Users, snapshot.Posts)
			if err != nil {
				return err
			}
			logger.Info("Seeded table", zap.String("table", table), zap.Int("items", written))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d items to %s\n", written, table)
			return err
		},
	}
	cmd.Flags().StringVar(&table, "table", "socialgraph", "DynamoDB table name")
	cmd.Flags().StringVar(&region, "region", "us-west-2", "AWS region")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "DynamoDB endpoint override, e.g. DynamoDB Local")
	return cmd
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"socialgraph/application/ports"
	querybus "socialgraph/application/queries/bus"
	domainconfig "socialgraph/domain/config"
	"socialgraph/infrastructure/config"
	"socialgraph/infrastructure/di"
	"socialgraph/infrastructure/messaging"
	"socialgraph/infrastructure/persistence/memory"
	"socialgraph/pkg/utils"

	"go.uber.org/zap"
)

// options holds the persistent flags shared by every subcommand
type options struct {
	snapshot    string
	configFile  string
	environment string
	now         string
	logLevel    string
}

// engine is a query bus over one snapshot file
type engine struct {
	bus    *querybus.QueryBus
	logger *zap.Logger
}

func (o *options) clock() (ports.Clock, error) {
	if o.now == "" {
		return utils.SystemClock{}, nil
	}
	at, err := utils.ParseRFC3339(o.now)
	if err != nil {
		return nil, fmt.Errorf("--now must be RFC3339: %w", err)
	}
	return utils.FixedClock{At: at.UTC()}, nil
}

func (o *options) domainConfig() (*domainconfig.DomainConfig, error) {
	if o.configFile == "" {
		return domainconfig.LoadDomainConfig(o.environment), nil
	}
	return config.LoadDomainConfig(o.configFile, o.environment)
}

// newLogger logs to stderr so stdout carries only results
func (o *options) newLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// loadSnapshot reads the snapshot named by --snapshot
func (o *options) loadSnapshot() (*memory.Snapshot, error) {
	if o.snapshot == "" {
		return nil, fmt.Errorf("--snapshot is required")
	}
	return memory.LoadSnapshotFile(o.snapshot)
}

// newEngine wires the same handlers and middleware the API uses, over an
// in-memory repository
func (o *options) newEngine() (*engine, error) {
	snapshot, err := o.loadSnapshot()
	if err != nil {
		return nil, err
	}
	domain, err := o.domainConfig()
	if err != nil {
		return nil, err
	}
	clock, err := o.clock()
	if err != nil {
		return nil, err
	}
	logger, err := o.newLogger()
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{Environment: o.environment, Domain: domain}
	repo := memory.NewRepository(snapshot)
	store := di.ProvideDomainStore(cfg)
	publisher := messaging.NewLogPublisher(logger, 0)
	graphs := di.ProvideFriendshipGraphService(repo, store, logger)
	set := di.ProvideQueryHandlers(graphs, repo, repo, publisher, clock, store, logger)

	queryBus := querybus.NewQueryBus()
	if err := set.Register(queryBus); err != nil {
		return nil, err
	}

	return &engine{bus: queryBus, logger: logger}, nil
}

// ask runs query with a deadline and writes the result as indented JSON
func ask[R any](ctx context.Context, e *engine, out io.Writer, query querybus.Query) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	result, err := querybus.Ask[R](ctx, e.bus, query)
	if err != nil {
		return err
	}
	return writeJSON(out, result)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

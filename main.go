package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/gookit/goutil/arrutil"

	"github.com/lcampbell/redis-bootstrap/config"
	"github.com/lcampbell/redis-bootstrap/directory"
	"github.com/lcampbell/redis-bootstrap/launch"
	"github.com/lcampbell/redis-bootstrap/probe"
	"github.com/lcampbell/redis-bootstrap/topology"
)

var validModes = []string{config.ModeServer, config.ModeSentinel}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	var (
		configPath = flag.String("config", "config.yaml", "config file path")
		mode       = flag.String("mode", config.ModeServer, "launch mode: server or sentinel")
	)
	flag.Parse()

	if !arrutil.Contains(validModes, *mode) {
		slog.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath, *mode)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := slog.Default()
	ctx := context.Background()

	dir := directory.NewMetadataClient(cfg, logger)

	uuid, err := dir.LocalUUID(ctx)
	if err != nil {
		logger.Error("failed to reach registry", "err", err)
		os.Exit(1)
	}
	logger.Info("starting bootstrap", "mode", *mode, "container", uuid)

	launcher := launch.New(cfg, logger)

	var resolver topology.Resolver
	switch *mode {
	case config.ModeSentinel:
		// The sentinel's own bootstrap deliberately skips probing and
		// trusts the lowest-index peer; see FirstPeerResolver.
		resolver = topology.NewFirstPeerResolver(dir, logger)
	default:
		resolver = topology.NewChainResolver(dir, probe.NewRedisProbe(cfg, logger), cfg, logger)
	}

	res, err := resolver.Resolve(ctx)
	if err != nil {
		logger.Error("failed to resolve topology", "err", err)
		os.Exit(1)
	}

	logger.Info("resolved topology",
		"primary", res.PrimaryAddr,
		"role", res.LocalRole,
		"source", res.Source)

	// Exec replaces this process; a return means the launch failed.
	if *mode == config.ModeSentinel {
		err = launcher.LaunchSentinel(res)
	} else {
		err = launcher.LaunchServer(res)
	}

	logger.Error("failed to launch", "mode", *mode, "err", err)
	os.Exit(1)
}

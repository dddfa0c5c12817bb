package topology

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lcampbell/redis-bootstrap/config"
	"github.com/lcampbell/redis-bootstrap/directory"
	"github.com/lcampbell/redis-bootstrap/probe"
)

// ErrNoPeers means the registry returned an empty service group; with no
// peers there is nothing to resolve against.
var ErrNoPeers = errors.New("no peers registered in service group")

type Role string

const (
	RolePrimary Role = "primary"
	RoleReplica Role = "replica"
)

// Source records which rule produced the decision.
type Source string

const (
	SourceSentinel  Source = "sentinel"
	SourcePeerChain Source = "peer-chain"
	SourceFallback  Source = "fallback"
)

// Resolution is the outcome of one startup attempt: who the primary is,
// what that makes this node, and which rule decided it. It is computed
// fresh on every process start and never persisted.
type Resolution struct {
	PrimaryAddr string
	LocalRole   Role
	Source      Source
}

// Resolver decides the replication topology for this node. The interface
// exists so the single-witness scan below can later be swapped for a
// quorum-aware strategy without touching the launcher.
type Resolver interface {
	Resolve(ctx context.Context) (Resolution, error)
}

// ChainResolver implements the full resolution order: sentinel opinion
// first, then a sequential scan of running peers, then the index-0
// fallback. It is a best-effort bootstrap heuristic, not an election
// protocol: it trusts the first peer that answers and holds no lock or
// quorum, so concurrent cold starts can transiently disagree until a
// restart or sentinel failover converges them.
type ChainResolver struct {
	directory    directory.Client
	probe        probe.Prober
	sentinelHost string
	masterName   string
	logger       *slog.Logger
}

func NewChainResolver(dir directory.Client, prober probe.Prober, cfg *config.Config, logger *slog.Logger) *ChainResolver {
	return &ChainResolver{
		directory:    dir,
		probe:        prober,
		sentinelHost: cfg.Sentinel.Host,
		masterName:   cfg.Sentinel.Master,
		logger:       logger,
	}
}

func (r *ChainResolver) Resolve(ctx context.Context) (Resolution, error) {
	self, err := r.directory.LocalIdentity(ctx)
	if err != nil {
		return Resolution{}, err
	}

	// A sentinel's opinion always wins over direct probing: it watches
	// the group continuously while this scan sees one instant.
	if r.sentinelHost != "" {
		if addr := r.probe.MasterAddrByName(r.sentinelHost, r.masterName); addr != "" {
			r.logger.Info("sentinel reported primary", "primary", addr)
			return resolution(self, addr, SourceSentinel), nil
		}
		r.logger.Debug("no answer from sentinel, probing peers", "sentinel", r.sentinelHost)
	}

	peers, err := r.directory.ListPeers(ctx)
	if err != nil {
		return Resolution{}, err
	}
	if len(peers) == 0 {
		return Resolution{}, ErrNoPeers
	}

	// Single-witness scan: the first running peer that answers with a
	// usable role decides for everyone. No second peer is consulted.
	for _, peer := range peers {
		if peer.State != directory.StateRunning {
			continue
		}

		if !r.probe.Ping(peer.Address) {
			r.logger.Debug("peer did not answer ping", "peer", peer.Address, "index", peer.Index, "uuid", peer.UUID)
			continue
		}

		result := r.probe.Role(peer.Address)
		switch result.Role {
		case probe.RolePrimary:
			r.logger.Info("peer reported itself primary", "peer", peer.Address, "index", peer.Index)
			return resolution(self, peer.Address, SourcePeerChain), nil
		case probe.RoleReplica:
			r.logger.Info("peer reported its primary", "peer", peer.Address, "primary", result.PrimaryAddr)
			return resolution(self, result.PrimaryAddr, SourcePeerChain), nil
		}

		// RoleUnknown: treat like unreachable and keep scanning.
		r.logger.Debug("peer role unknown", "peer", peer.Address, "index", peer.Index)
	}

	// Nobody gave a usable answer. Assume the first registered peer is
	// primary, reachable or not; the full unfiltered sequence is used so
	// every node lands on the same address.
	fallback := peers[0].Address
	r.logger.Info("no peer answered, falling back to first registered peer", "primary", fallback)

	return resolution(self, fallback, SourceFallback), nil
}

// FirstPeerResolver is the sentinel-bootstrap variant: it always treats
// the lowest-index peer as primary without any probing. The asymmetry
// with ChainResolver is deliberate and must not be unified quietly.
type FirstPeerResolver struct {
	directory directory.Client
	logger    *slog.Logger
}

func NewFirstPeerResolver(dir directory.Client, logger *slog.Logger) *FirstPeerResolver {
	return &FirstPeerResolver{directory: dir, logger: logger}
}

func (r *FirstPeerResolver) Resolve(ctx context.Context) (Resolution, error) {
	self, err := r.directory.LocalIdentity(ctx)
	if err != nil {
		return Resolution{}, err
	}

	peers, err := r.directory.ListPeers(ctx)
	if err != nil {
		return Resolution{}, err
	}
	if len(peers) == 0 {
		return Resolution{}, ErrNoPeers
	}

	r.logger.Info("assuming first registered peer is primary", "primary", peers[0].Address)

	return resolution(self, peers[0].Address, SourceFallback), nil
}

func resolution(self, primary string, source Source) Resolution {
	role := RoleReplica
	if primary == self {
		role = RolePrimary
	}

	return Resolution{PrimaryAddr: primary, LocalRole: role, Source: source}
}

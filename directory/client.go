package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lcampbell/redis-bootstrap/config"
)

// ErrDirectoryUnavailable wraps every registry access failure. Callers
// treat it as fatal at startup; there is no retry at this layer.
var ErrDirectoryUnavailable = errors.New("directory unavailable")

// Client reads peer membership and the local identity from the registry.
type Client interface {
	ListPeers(ctx context.Context) ([]Peer, error)
	LocalIdentity(ctx context.Context) (string, error)
}

// MetadataClient reads the registry's versioned key-path API. Every
// resource is a plain-text GET; the body is the value.
type MetadataClient struct {
	baseURL string
	version string
	client  *http.Client
	logger  *slog.Logger
}

func NewMetadataClient(cfg *config.Config, logger *slog.Logger) *MetadataClient {
	return &MetadataClient{
		baseURL: strings.TrimRight(cfg.Registry.URL, "/"),
		version: cfg.Registry.Version,
		client:  &http.Client{Timeout: cfg.Registry.TimeoutDuration()},
		logger:  logger,
	}
}

// ListPeers enumerates every registered member of the local service group
// in registration order. Stopped peers are included so callers can apply
// their own filtering policy.
func (c *MetadataClient) ListPeers(ctx context.Context) ([]Peer, error) {
	scale, err := c.get(ctx, pathServiceScale)
	if err != nil {
		return nil, err
	}

	count, err := strconv.Atoi(scale)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed service scale %q", ErrDirectoryUnavailable, scale)
	}

	peers := make([]Peer, 0, count)
	for i := 0; i < count; i++ {
		state, err := c.get(ctx, fmt.Sprintf(pathContainerState, i))
		if err != nil {
			return nil, err
		}

		address, err := c.get(ctx, fmt.Sprintf(pathContainerAddress, i))
		if err != nil {
			return nil, err
		}

		uuid, err := c.get(ctx, fmt.Sprintf(pathContainerUUID, i))
		if err != nil {
			return nil, err
		}

		peers = append(peers, Peer{
			Index:   i,
			Address: address,
			UUID:    uuid,
			State:   PeerState(state),
		})
	}

	c.logger.Debug("listed peers", "count", len(peers))

	return peers, nil
}

// LocalIdentity returns this process's own address as known to the registry.
func (c *MetadataClient) LocalIdentity(ctx context.Context) (string, error) {
	return c.get(ctx, pathSelfAddress)
}

// LocalUUID returns the registry's identifier for this container, useful
// for correlating log lines across restarts.
func (c *MetadataClient) LocalUUID(ctx context.Context) (string, error) {
	return c.get(ctx, pathSelfUUID)
}

func (c *MetadataClient) get(ctx context.Context, path string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.version, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned status %d", ErrDirectoryUnavailable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	return strings.TrimSpace(string(body)), nil
}

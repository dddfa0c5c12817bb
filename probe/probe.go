package probe

import (
	"bufio"
	"log/slog"
	"net"
	"time"

	"github.com/lcampbell/redis-bootstrap/config"
)

// Role is a peer's replication role as reported by the peer itself.
type Role string

const (
	RolePrimary Role = "primary"
	RoleReplica Role = "replica"
	RoleUnknown Role = "unknown"
)

// Result is the outcome of one role query against one peer. When Role is
// RoleReplica, PrimaryAddr is always populated; a slave reply that cannot
// name its primary is downgraded to RoleUnknown instead.
type Result struct {
	Reachable   bool
	Role        Role
	PrimaryAddr string
}

// Prober asks individual peers about their replication state. None of the
// methods return errors: unreachable peers and malformed replies are part
// of normal operation during cluster bring-up, and the resolver treats
// both the same way.
type Prober interface {
	Ping(addr string) bool
	Role(addr string) Result
	MasterAddrByName(host, master string) string
}

// RedisProbe probes peers over the redis wire protocol with a bounded
// dial and I/O deadline per call, so one hung peer cannot stall the
// whole resolution scan.
type RedisProbe struct {
	password     string
	redisAddr    func(host string) string
	sentinelAddr func(host string) string
	timeout      time.Duration
	logger       *slog.Logger
}

func NewRedisProbe(cfg *config.Config, logger *slog.Logger) *RedisProbe {
	return &RedisProbe{
		password:     cfg.Redis.Password,
		redisAddr:    cfg.Redis.Addr,
		sentinelAddr: cfg.Sentinel.Addr,
		timeout:      cfg.Probe.TimeoutDuration(),
		logger:       logger,
	}
}

// Ping authenticates and issues a liveness command. It returns true only
// if the reply is the exact acknowledgment token.
func (p *RedisProbe) Ping(addr string) bool {
	conn, err := p.dial(p.redisAddr(addr))
	if err != nil {
		return false
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	if err := p.authenticate(reader, writer); err != nil {
		p.logger.Debug("auth failed during ping", "peer", addr, "err", err)
		return false
	}

	if err := writeCommand(writer, cmdPing); err != nil {
		return false
	}

	lines, err := readReply(reader)
	if err != nil || len(lines) != 1 {
		return false
	}

	return lines[0] == replyPong
}

// Role issues the replication-role query. Transport errors yield an
// unreachable result; replies that do not parse yield RoleUnknown. The
// resolver treats both the same, so neither is an error here.
func (p *RedisProbe) Role(addr string) Result {
	conn, err := p.dial(p.redisAddr(addr))
	if err != nil {
		return Result{Role: RoleUnknown}
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	if err := p.authenticate(reader, writer); err != nil {
		p.logger.Debug("auth failed during role query", "peer", addr, "err", err)
		return Result{Role: RoleUnknown}
	}

	if err := writeCommand(writer, cmdRole); err != nil {
		return Result{Role: RoleUnknown}
	}

	lines, err := readReply(reader)
	if err != nil || len(lines) == 0 {
		return Result{Reachable: true, Role: RoleUnknown}
	}

	switch lines[0] {
	case tokenMaster:
		return Result{Reachable: true, Role: RolePrimary, PrimaryAddr: addr}
	case tokenSlave:
		if len(lines) < 2 || lines[1] == "" {
			return Result{Reachable: true, Role: RoleUnknown}
		}
		return Result{Reachable: true, Role: RoleReplica, PrimaryAddr: lines[1]}
	default:
		return Result{Reachable: true, Role: RoleUnknown}
	}
}

// MasterAddrByName asks a sentinel for the current primary of the named
// replication group. The sentinel channel is unauthenticated. Any
// failure, including an unknown group name, returns the empty string.
func (p *RedisProbe) MasterAddrByName(host, master string) string {
	conn, err := p.dial(p.sentinelAddr(host))
	if err != nil {
		return ""
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	if err := writeCommand(writer, cmdSentinel, sentinelMasterAddr, master); err != nil {
		return ""
	}

	lines, err := readReply(reader)
	if err != nil || len(lines) < 1 {
		return ""
	}

	// Reply is a host/port pair; peers are addressed by host, the
	// replication port is fixed configuration.
	return lines[0]
}

func (p *RedisProbe) dial(addr string) (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", addr, p.timeout)
	if err != nil {
		return nil, err
	}
	if err := conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (p *RedisProbe) authenticate(reader *bufio.Reader, writer *bufio.Writer) error {
	if p.password == "" {
		return nil
	}

	if err := writeCommand(writer, cmdAuth, p.password); err != nil {
		return err
	}

	_, err := readReply(reader)
	return err
}

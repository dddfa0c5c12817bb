package launch

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"text/template"

	"github.com/lcampbell/redis-bootstrap/config"
	"github.com/lcampbell/redis-bootstrap/topology"
)

const serverBinary = "redis-server"

// sentinelConfTemplate is rendered once per sentinel container. The
// replication group is monitored on the fixed redis port resolved from
// configuration at render time.
const sentinelConfTemplate = `sentinel monitor {{.Master}} {{.PrimaryHost}} {{.Port}} {{.Quorum}}
sentinel down-after-milliseconds {{.Master}} 30000
sentinel failover-timeout {{.Master}} 180000
sentinel parallel-syncs {{.Master}} 1
sentinel auth-pass {{.Master}} {{.Password}}
`

// Launcher turns a Resolution into a redis-server invocation and replaces
// the current process with it. All validation happens before the exec;
// once Exec is reached nothing returns.
type Launcher struct {
	cfg    *config.Config
	logger *slog.Logger

	// execFn is syscall.Exec in production; tests substitute a recorder.
	execFn func(argv0 string, argv []string, envv []string) error
}

func New(cfg *config.Config, logger *slog.Logger) *Launcher {
	return &Launcher{
		cfg:    cfg,
		logger: logger,
		execFn: syscall.Exec,
	}
}

// ServerArgs builds the redis-server argument vector for the resolved
// role. A primary needs only the shared secret; a replica additionally
// gets a replicate-from directive pointing at the resolved primary.
func (l *Launcher) ServerArgs(res topology.Resolution) []string {
	args := []string{
		serverBinary,
		"--requirepass", l.cfg.Redis.Password,
		"--masterauth", l.cfg.Redis.Password,
	}

	if res.LocalRole == topology.RoleReplica {
		args = append(args, "--slaveof", res.PrimaryAddr, strconv.Itoa(l.cfg.Redis.Port))
	}

	return args
}

// LaunchServer execs redis-server with the resolved topology. It only
// returns on error.
func (l *Launcher) LaunchServer(res topology.Resolution) error {
	if l.cfg.Redis.Password == "" {
		return &config.MissingConfigError{Fields: []string{"redis.password"}}
	}
	if res.PrimaryAddr == "" {
		return fmt.Errorf("refusing to launch without a resolved primary")
	}

	l.logger.Info("launching redis server",
		"role", res.LocalRole,
		"primary", res.PrimaryAddr,
		"source", res.Source)

	return l.exec(l.ServerArgs(res))
}

// LaunchSentinel renders the sentinel config if needed and execs
// redis-server in sentinel mode. It only returns on error.
func (l *Launcher) LaunchSentinel(res topology.Resolution) error {
	if missing := l.missingSentinelFields(); len(missing) > 0 {
		return &config.MissingConfigError{Fields: missing}
	}
	if res.PrimaryAddr == "" {
		return fmt.Errorf("refusing to launch without a resolved primary")
	}

	if err := l.WriteSentinelConf(res); err != nil {
		return err
	}

	l.logger.Info("launching sentinel",
		"master", l.cfg.Sentinel.Master,
		"primary", res.PrimaryAddr,
		"conf", l.cfg.Sentinel.ConfPath)

	return l.exec([]string{serverBinary, l.cfg.Sentinel.ConfPath, "--sentinel"})
}

// WriteSentinelConf renders the config artifact for the sentinel. The
// file is write-once: if it already exists on disk it is kept untouched,
// since a running sentinel rewrites its own config with runtime state
// that must survive container restarts.
func (l *Launcher) WriteSentinelConf(res topology.Resolution) error {
	path := l.cfg.Sentinel.ConfPath

	if _, err := os.Stat(path); err == nil {
		l.logger.Info("sentinel config already exists, keeping it", "path", path)
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check sentinel config: %w", err)
	}

	tmpl, err := template.New("sentinel").Parse(sentinelConfTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse sentinel config template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Master      string
		PrimaryHost string
		Port        int
		Quorum      int
		Password    string
	}{
		Master:      l.cfg.Sentinel.Master,
		PrimaryHost: res.PrimaryAddr,
		Port:        l.cfg.Redis.Port,
		Quorum:      l.cfg.Sentinel.Quorum,
		Password:    l.cfg.Sentinel.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to render sentinel config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("unable to create sentinel config directory: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write sentinel config: %w", err)
	}

	return nil
}

func (l *Launcher) missingSentinelFields() []string {
	var missing []string

	if l.cfg.Sentinel.Master == "" {
		missing = append(missing, "sentinel.master")
	}
	if l.cfg.Sentinel.Quorum <= 0 {
		missing = append(missing, "sentinel.quorum")
	}
	if l.cfg.Sentinel.Password == "" {
		missing = append(missing, "sentinel.password")
	}
	if l.cfg.Sentinel.ConfPath == "" {
		missing = append(missing, "sentinel.conf_path")
	}

	return missing
}

func (l *Launcher) exec(args []string) error {
	binary, err := exec.LookPath(args[0])
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", args[0], err)
	}

	return l.execFn(binary, args, os.Environ())
}

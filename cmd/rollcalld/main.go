package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/pkg/errors"

	"github.com/abihf/rollcall"
	"github.com/abihf/rollcall/bootstrap"
	"github.com/abihf/rollcall/config"
	"github.com/abihf/rollcall/logger"
	"github.com/abihf/rollcall/server"
	"github.com/abihf/rollcall/utils/thread"
)

// frames dropped while the sensor settles before the automatic capture
const warmUpFrames = 5

func main() {
	conf, loadErr := config.Load(os.Getenv("ROLLCALL_CONFIG"))
	log := logger.Init(logger.Options{Level: conf.Log.Level, Format: conf.Log.Format, Component: "rollcalld"})
	if loadErr != nil {
		log.Warn().Err(loadErr).Msg("Config file ignored, using defaults")
	}

	if err := serve(conf); err != nil {
		log.Fatal().Stack().Err(err).Msg("rollcalld stopped")
	}
}

func serve(conf *config.Config) error {
	log := logger.Get()
	if err := conf.Validate(); err != nil {
		return err
	}
	if isAlreadyRun(conf.PidFile) {
		return errors.New("already run")
	}

	app, cleanup, err := bootstrap.NewApp(conf, log, bootstrap.Options{
		Faces: true,
		OpenDisplay: func() (rollcall.Display, error) {
			return &rollcall.AutoTrigger{Skip: warmUpFrames}, nil
		},
	})
	if err != nil {
		return errors.Wrap(err, "Can not initialize face recognizer")
	}
	defer cleanup()

	for _, dir := range []string{filepath.Dir(conf.Socket), filepath.Dir(conf.PidFile)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "Can not create %s", dir)
		}
	}
	if err := writeLockFile(conf.PidFile); err != nil {
		return errors.Wrap(err, "Can not write pid file")
	}
	defer os.Remove(conf.PidFile)

	os.Remove(conf.Socket)
	ln, err := net.Listen("unix", conf.Socket)
	if err != nil {
		return errors.Wrap(err, "Listen error")
	}
	defer ln.Close()
	if err := os.Chmod(conf.Socket, 0o660); err != nil {
		log.Warn().Err(err).Msg("Can not chmod socket")
	}

	srv := &server.Server{
		App:     app,
		Timeout: time.Duration(conf.Timeout) * time.Second,
		Log:     log,
	}
	if core, ok := conf.PinnedCore(); ok {
		srv.Pin = func() (func(), error) { return thread.Pin(core) }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx, ln) }()

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Warn().Err(err).Msg("Can not notify systemd")
	}
	log.Info().Str("socket", conf.Socket).Msg("Ready")

	select {
	case <-ctx.Done():
		log.Info().Msg("Caught signal: shutting down")
		daemon.SdNotify(false, daemon.SdNotifyStopping)
		ln.Close()
		return <-errc
	case err := <-errc:
		return err
	}
}

// isAlreadyRun reports whether the pid file names a live process. Stale or
// unreadable pid files are ignored.
func isAlreadyRun(path string) bool {
	pid, err := readPid(path)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			logger.Get().Warn().Err(err).Str("path", path).Msg("Ignoring pid file")
		}
		return false
	}
	// signal 0 only probes for existence
	return syscall.Kill(pid, 0) == nil
}

func readPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(err, "Can not read pid file")
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, errors.Errorf("invalid pid %q", strings.TrimSpace(string(data)))
	}
	return pid, nil
}

func writeLockFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}

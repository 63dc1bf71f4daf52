package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tempo/internal/config"
	"github.com/llehouerou/tempo/internal/download"
	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/logging"
	"github.com/llehouerou/tempo/internal/metrics"
	"github.com/llehouerou/tempo/internal/musicserver"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
	"github.com/llehouerou/tempo/internal/state"
	"github.com/llehouerou/tempo/internal/streamcache"
)

// env holds the components shared by all commands. Fields are built on
// demand so that e.g. `cache info` never opens the audio device.
type env struct {
	cfg     *config.Config
	log     *logrus.Logger
	metrics *metrics.Metrics
	cache   *streamcache.Cache // set by newSequencer when enabled
	closers []func() error
}

func newEnv(cmd *cobra.Command) (*env, error) {
	var cfg *config.Config
	var err error
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFiles(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	closer, err := logging.Setup(log, logging.Options{
		File:  cfg.Log.File,
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
	})
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log, metrics: metrics.New()}
	e.closers = append(e.closers, closer.Close)
	return e, nil
}

// Close releases everything in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	e.closers = nil
	return errors.Join(errs...)
}

func (e *env) openStore() (*state.Manager, error) {
	var m *state.Manager
	var err error
	if e.cfg.Data.DB != "" {
		m, err = state.OpenPath(e.cfg.Data.DB)
	} else {
		m, err = state.Open()
	}
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, m.Close)
	return m, nil
}

// openCache returns nil when the cache is disabled.
func (e *env) openCache() (*streamcache.Cache, error) {
	if !e.cfg.CacheEnabled() {
		return nil, nil //nolint:nilnil // disabled
	}
	return streamcache.New(e.cfg.Cache.Dir,
		streamcache.WithLogger(e.log),
		streamcache.WithMetrics(e.metrics),
	)
}

// client returns nil when no server is configured.
func (e *env) client() *musicserver.Client {
	if !e.cfg.HasServer() {
		return nil
	}
	return musicserver.New(e.cfg.Server.URL,
		musicserver.WithTimeout(e.cfg.Server.Timeout),
		musicserver.WithLogger(e.log),
	)
}

// newSequencer builds the engine and the sequencer over it.
func (e *env) newSequencer(store *state.Manager) *playback.Sequencer {
	p := player.New(
		player.WithLogger(e.log),
		player.WithMetrics(e.metrics),
		player.WithProgressInterval(e.cfg.Playback.ProgressInterval),
		player.WithMaxStreamSize(e.cfg.MaxStreamBytes()),
	)

	opts := []playback.Option{playback.WithLogger(e.log)}
	if store != nil {
		opts = append(opts, playback.WithStore(store), playback.WithPlaylistStore(store))
	}
	cache, err := e.openCache()
	if err != nil {
		e.log.WithError(err).Warn(errmsg.Format(errmsg.OpCacheOpen, err))
	} else if cache != nil {
		e.cache = cache
		opts = append(opts, playback.WithCache(cache))
	}
	if c := e.client(); c != nil {
		opts = append(opts, playback.WithFetcher(c))
	}

	seq := playback.New(p, opts...)
	if e.cfg.Playback.Mode != "" {
		seq.SetPlayMode(playlist.ParsePlayMode(e.cfg.Playback.Mode))
	}
	e.closers = append(e.closers, func() error {
		err := seq.Close()
		p.Close()
		return err
	})
	return seq
}

// newDownloader saves remote tracks into download.dir, copying from the
// stream cache opened by newSequencer when it has them.
func (e *env) newDownloader() *download.Downloader {
	opts := []download.Option{download.WithLogger(e.log)}
	if e.cache != nil {
		opts = append(opts, download.WithCache(e.cache))
	}
	if c := e.client(); c != nil {
		opts = append(opts, download.WithFetcher(c))
	}
	return download.New(e.cfg.Download.Dir, opts...)
}

// serveMetrics exposes Prometheus metrics when metrics.listen is set.
func (e *env) serveMetrics() {
	addr := e.cfg.Metrics.Listen
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           e.metrics.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.log.WithError(err).WithField("addr", addr).Error("metrics server")
		}
	}()
	e.log.WithField("addr", addr).Info("serving metrics")
	e.closers = append(e.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
}

// out is where command output goes; tests capture it through cmd.SetOut.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

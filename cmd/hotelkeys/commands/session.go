package commands

import (
	"context"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/hotelkeys/internal/config"
	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
	"git.home.luguber.info/inful/hotelkeys/internal/logfields"
	"git.home.luguber.info/inful/hotelkeys/internal/menu"
	"git.home.luguber.info/inful/hotelkeys/internal/metrics"
	"git.home.luguber.info/inful/hotelkeys/internal/registry"
	"git.home.luguber.info/inful/hotelkeys/internal/storage"
)

// session is an opened store plus the registry loaded from it.
type session struct {
	cfg     *config.Config
	store   storage.Store
	reg     *registry.Registry
	metrics *prom.Registry
	g       *Global
}

// openStore opens the configured backend without loading it.
func openStore(cfg *config.Config) (storage.Store, error) {
	backend, err := storage.ParseBackend(cfg.Data.Backend)
	if err != nil {
		return nil, herrors.ConfigInvalid("data.backend", err)
	}
	store, err := storage.Open(backend, cfg.Data.File)
	if err != nil {
		if _, ok := herrors.As(err); ok {
			return nil, err
		}
		return nil, herrors.StorageCorrupt(cfg.Data.File, err)
	}
	return store, nil
}

// openSession loads configuration, opens the store and initializes the registry.
// Save failures are printed to the user as warnings.
func openSession(ctx context.Context, g *Global, root *CLI) (*session, error) {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, store: store, g: g}
	opts := []registry.Option{
		registry.WithLogger(g.Logger),
		registry.WithWarningHandler(menu.WarningPrinter(g.Out)),
	}
	if cfg.Metrics.Textfile != "" {
		s.metrics = prom.NewRegistry()
		opts = append(opts, registry.WithRecorder(metrics.NewPrometheusRecorder(s.metrics)))
	}

	g.Logger.Debug("Opening room registry",
		logfields.Backend(cfg.Data.Backend), logfields.Path(store.Location()))
	reg, err := registry.Initialize(ctx, store, cfg.Hotel.TotalRooms, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	s.reg = reg
	return s, nil
}

// close exports metrics when configured and releases the store.
func (s *session) close() {
	if s.metrics != nil {
		if err := metrics.WriteTextfile(s.cfg.Metrics.Textfile, s.metrics); err != nil {
			s.g.Logger.Warn("Failed to write metrics textfile",
				logfields.Path(s.cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	if err := s.store.Close(); err != nil {
		s.g.Logger.Warn("Failed to close store", logfields.Error(err))
	}
}

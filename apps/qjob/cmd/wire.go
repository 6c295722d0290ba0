package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/uptrace/bun"

	"github.com/quatton/qjob/pkg/db"
	"github.com/quatton/qjob/pkg/jobinfo"
	"github.com/quatton/qjob/pkg/kv"
	"github.com/quatton/qjob/pkg/qart"
	"github.com/quatton/qjob/pkg/qconf"
	"github.com/quatton/qjob/pkg/qerr"
	"github.com/quatton/qjob/pkg/qexec"
	"github.com/quatton/qjob/pkg/qlog"
)

// wiring holds everything a lookup needs, plus what must be closed afterwards.
type wiring struct {
	Service *jobinfo.Service
	Exec    qexec.Executor
	Reports qart.Store
	closers []io.Closer
}

func (r *wiring) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i].Close()
	}
}

func newExecutor(cfg *qconf.Config) (qexec.Executor, error) {
	exec, err := qexec.New(cfg.Executor)
	if err != nil {
		return nil, qerr.New(qerr.CodeConfig, err)
	}
	return exec, nil
}

// newWiring wires the executor, the optional record cache and the enabled sinks. Cache and
// sink backends that cannot be reached are skipped with a warning.
func newWiring(ctx context.Context, cfg *qconf.Config, logger *qlog.Logger) (*wiring, error) {
	exec, err := newExecutor(cfg)
	if err != nil {
		return nil, err
	}

	w := &wiring{Exec: exec}
	if c, ok := exec.(io.Closer); ok {
		w.closers = append(w.closers, c)
	}

	opts := []jobinfo.Option{
		jobinfo.WithLogger(logger.Logger),
		jobinfo.WithTimeout(cfg.Timeout),
		jobinfo.WithPriorities(cfg.Backends),
	}

	if store := newCacheStore(ctx, cfg, logger); store != nil {
		w.closers = append(w.closers, store)
		opts = append(opts, jobinfo.WithCache(jobinfo.NewRecordCache(store, cfg.Cache.TTL)))
	}

	if cfg.Archive.Enabled {
		store, err := qart.NewS3Store(cfg.Archive.S3Config)
		if err != nil {
			logger.Warn("report archive disabled", "error", err)
		} else {
			w.Reports = store
			opts = append(opts, jobinfo.WithSinks(qart.NewArchiveSink(store, logger.Logger)))
		}
	}

	if cfg.Export.Enabled {
		database, err := openDatabase(ctx, cfg)
		if err != nil {
			logger.Warn("database export disabled", "error", err)
		} else {
			w.closers = append(w.closers, database)
			opts = append(opts, jobinfo.WithSinks(db.NewExportSink(database)))
		}
	}

	w.Service = jobinfo.NewService(exec, opts...)
	return w, nil
}

func newCacheStore(ctx context.Context, cfg *qconf.Config, logger *qlog.Logger) kv.Store {
	switch cfg.Cache.Kind {
	case qconf.CacheMemory:
		return kv.NewMemoryStore()
	case qconf.CacheValkey:
		store, err := kv.NewValkeyStore(ctx, kv.ValkeyConfig{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Warn("record cache disabled", "addr", cfg.Cache.Addr, "error", err)
			return nil
		}
		return store
	}
	return nil
}

func openDatabase(ctx context.Context, cfg *qconf.Config) (*bun.DB, error) {
	database, err := db.New(ctx, cfg.Export.Config)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s:%d: %w", cfg.Export.Host, cfg.Export.Port, err)
	}
	return database, nil
}

package keeper

import (
	"context"
	"time"

	"lending/core"
	"lending/pkg/metrics"
	"lending/pkg/number"
	"lending/worker"

	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Config keeper config
type Config struct {
	// Delay between two rounds
	Delay time.Duration
	// Concurrency of the pool metric refresh
	Concurrency int
}

// Worker accrues every pool periodically so stored pools and the pool
// metrics stay fresh between user operations
type Worker struct {
	worker.TickWorker
	engine   core.IEngine
	registry core.IAssetRegistry
	cfg      Config
}

// New new keeper worker
func New(engine core.IEngine, registry core.IAssetRegistry, cfg Config) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}

	return &Worker{
		TickWorker: worker.TickWorker{Delay: cfg.Delay},
		engine:     engine,
		registry:   registry,
		cfg:        cfg,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "keeper")

	pools, err := w.engine.Pools(ctx)
	if err != nil {
		log.WithError(err).Errorln("list pools")
		return err
	}

	// accruals queue on the engine's call slot with user operations, run
	// them one by one
	accrued := make([]*core.AssetPool, 0, len(pools))
	for _, p := range pools {
		pool, err := w.engine.Accrue(ctx, p.AssetID)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		metrics.Engine().ObserveAccrual(p.AssetID, err)

		if err != nil {
			switch core.CodeOf(err) {
			case core.ErrConcurrentUpdate:
				log.WithError(err).Debugln("skip: pool busy", p.AssetID)
			default:
				log.WithError(err).Errorln("accrue pool", p.AssetID)
			}

			continue
		}

		accrued = append(accrued, pool)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Concurrency)

	for _, pool := range accrued {
		pool := pool
		g.Go(func() error {
			return w.publish(ctx, pool)
		})
	}

	return g.Wait()
}

func (w *Worker) publish(ctx context.Context, pool *core.AssetPool) error {
	asset, err := w.registry.GetConfig(ctx, pool.AssetID)
	if err != nil {
		return err
	}

	decimals := int32(asset.Decimals)
	deposits, _ := number.ToDecimal(pool.TotalDeposits, decimals).Float64()
	borrows, _ := number.ToDecimal(pool.TotalBorrows, decimals).Float64()
	depositRate, _ := number.ToDecimal(pool.DepositRate, 18).Float64()
	borrowRate, _ := number.ToDecimal(pool.BorrowRate, 18).Float64()

	metrics.Engine().SetPool(asset.Symbol, deposits, borrows, depositRate, borrowRate)
	return nil
}

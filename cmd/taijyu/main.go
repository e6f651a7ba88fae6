package main

import (
	"errors"
	"net/http"

	adapthttp "github.com/Soiya59/jijibaba-taijyu/internal/adapter/http"
	"github.com/Soiya59/jijibaba-taijyu/internal/adapter/memory"
	"github.com/Soiya59/jijibaba-taijyu/internal/adapter/sqlstore"
	"github.com/Soiya59/jijibaba-taijyu/internal/app"
	"github.com/Soiya59/jijibaba-taijyu/internal/config"
	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
	"github.com/Soiya59/jijibaba-taijyu/pkg/logger"
)

// repos bundles the persistence ports main wires into services.
type repos struct {
	weights    domain.WeightRepository
	goals      domain.GoalRepository
	points     domain.PointsRepository
	quests     domain.CatalogRepository
	rewards    domain.CatalogRepository
	wishes     domain.WishRepository
	questHist  domain.HistoryRepository
	rewardHist domain.HistoryRepository
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	var (
		r       repos
		closeFn func() error
	)
	switch {
	case cfg.DatabaseURL != "":
		store, err := sqlstore.OpenPostgres(cfg.DatabaseURL, log)
		if err != nil {
			log.WithError(err).Fatal("postgres open")
		}
		r = storeRepos(store)
		closeFn = store.Close
		log.Info("using postgres store")

	default:
		path, err := sqlstore.ResolveSQLitePath(cfg.SQLitePath)
		if err == nil {
			var store *sqlstore.Store
			store, err = sqlstore.OpenSQLite(path, log)
			if err == nil {
				r = storeRepos(store)
				closeFn = store.Close
				log.WithField("path", path).Info("using sqlite store")
			}
		}
		if err != nil {
			// Degraded mode: the app stays usable, nothing persists.
			log.WithError(err).Warn("no store reachable, running in memory")
			db := memory.NewSeeded()
			r = repos{
				weights:    db,
				goals:      db,
				points:     db,
				quests:     db.Quests(),
				rewards:    db.Rewards(),
				wishes:     db,
				questHist:  db.QuestHistory(),
				rewardHist: db.RewardHistory(),
			}
		}
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	ledger := app.NewPointsLedger(r.points, log)
	questHist := app.NewHistoryService(r.questHist, cfg.HistoryWindow, app.QuestPalette)
	rewardHist := app.NewHistoryService(r.rewardHist, cfg.HistoryWindow, app.RewardPalette)

	srv := adapthttp.New(adapthttp.Services{
		Weight:     app.NewWeightService(r.weights, ledger, cfg.RecordBonus, log),
		Goals:      app.NewGoalService(r.goals, r.weights, log),
		Ledger:     ledger,
		Quests:     app.NewCatalogService(app.KindQuest, r.quests, questHist, ledger, log),
		Rewards:    app.NewCatalogService(app.KindReward, r.rewards, rewardHist, ledger, log),
		Wishes:     app.NewWishService(r.wishes, log),
		QuestHist:  questHist,
		RewardHist: rewardHist,
	}, log)

	log.WithField("addr", cfg.Addr).Info("listening")
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server")
	}
}

func storeRepos(store *sqlstore.Store) repos {
	return repos{
		weights:    store,
		goals:      store,
		points:     store,
		quests:     store.Quests(),
		rewards:    store.Rewards(),
		wishes:     store,
		questHist:  store.QuestHistory(),
		rewardHist: store.RewardHistory(),
	}
}

// Package adapthttp is the driving HTTP adapter: a JSON API over the
// application services, one route group per screen.
package adapthttp

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Soiya59/jijibaba-taijyu/internal/app"
)

// Server routes requests to application services.
type Server struct {
	weight     *app.WeightService
	goals      *app.GoalService
	ledger     *app.PointsLedger
	quests     *app.CatalogService
	rewards    *app.CatalogService
	wishes     *app.WishService
	questHist  *app.HistoryService
	rewardHist *app.HistoryService
	log        *logrus.Logger
}

// Services bundles everything the HTTP layer serves.
type Services struct {
	Weight     *app.WeightService
	Goals      *app.GoalService
	Ledger     *app.PointsLedger
	Quests     *app.CatalogService
	Rewards    *app.CatalogService
	Wishes     *app.WishService
	QuestHist  *app.HistoryService
	RewardHist *app.HistoryService
}

// New creates a Server wired to the given application services.
func New(svcs Services, log *logrus.Logger) *Server {
	return &Server{
		weight:     svcs.Weight,
		goals:      svcs.Goals,
		ledger:     svcs.Ledger,
		quests:     svcs.Quests,
		rewards:    svcs.Rewards,
		wishes:     svcs.Wishes,
		questHist:  svcs.QuestHist,
		rewardHist: svcs.RewardHist,
		log:        log,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/weight", s.handleWeight)
	api.HandleFunc("/weight/month", s.handleWeightMonth)

	api.HandleFunc("/goals/summary", s.handleGoalSummary)
	api.HandleFunc("/goals/final", s.handleFinalGoal)
	api.HandleFunc("/goals/period", s.handlePeriodGoal)

	api.HandleFunc("/points", s.handlePoints)

	api.HandleFunc("/quests", s.catalogHandler(s.quests))
	api.HandleFunc("/quests/complete", s.completeHandler(s.quests))
	api.HandleFunc("/quests/history", s.historyHandler(s.questHist))

	api.HandleFunc("/rewards", s.catalogHandler(s.rewards))
	api.HandleFunc("/rewards/redeem", s.completeHandler(s.rewards))
	api.HandleFunc("/rewards/history", s.historyHandler(s.rewardHist))

	api.HandleFunc("/wishes", s.handleWishes)
	api.HandleFunc("/wishes/toggle", s.handleWishToggle)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/metrics", promhttp.Handler())

	return s.loggingMiddleware(withNoCache(root))
}

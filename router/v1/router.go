// Package v1 exposes a small read-only diagnostic HTTP API over the
// voting loop's current state: last observed prices and prevote/vote
// pairing, for operators and monitoring.
package v1

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/oracle-feeder/voter/oracle"
	"github.com/oracle-feeder/voter/pkg/httputil"
)

// APIPathPrefix is the mount point for this router's routes.
const APIPathPrefix = "/api/v1"

// Router serves read-only oracle status for operators.
type Router struct {
	logger zerolog.Logger
	oracle *oracle.Oracle
}

// New builds a Router bound to the given oracle instance.
func New(logger zerolog.Logger, o *oracle.Oracle) Router {
	return Router{logger: logger.With().Str("module", "router_v1").Logger(), oracle: o}
}

// RegisterRoutes mounts this router's handlers on rtr under prefix.
func (r Router) RegisterRoutes(rtr *mux.Router, prefix string) {
	rtr.HandleFunc(prefix+"/prices", r.handlePrices).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/status", r.handleStatus).Methods(http.MethodGet)
}

func (r Router) handlePrices(w http.ResponseWriter, _ *http.Request) {
	status := r.oracle.Status()
	httputil.RespondWithJSON(w, http.StatusOK, status.LastPrices)
}

func (r Router) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := r.oracle.Status()
	httputil.RespondWithJSON(w, http.StatusOK, status)
}

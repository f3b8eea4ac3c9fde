package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/common"
)

// NewRouter assembles the HTTP surface: the REST gateway plus the websocket
// endpoint, behind auth and request logging.
func NewRouter(rest *RestHandler, ws *WSHandler, logger *logrus.Logger) http.Handler {
	r := mux.NewRouter()
	rest.RegisterRoutes(r)
	r.HandleFunc("/ws", ws.Serve).Methods(http.MethodGet)

	r.Use(common.AuthMiddleware)
	r.Use(common.LoggingMiddleware(logger))
	return r
}

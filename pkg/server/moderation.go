package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ContentGuard/ModGate/pkg/config"
	handlers "github.com/ContentGuard/ModGate/pkg/handlers/http"
	"github.com/ContentGuard/ModGate/pkg/server/router"
)

type (
	ModerationServerDI struct {
		HandlerTransport handlers.HandlerTransport
		Config           *config.Config
		Logger           *logrus.Logger
	}
	ModerationServer struct {
		*BaseServer
		handlerTransport handlers.HandlerTransport
	}
)

func NewModerationServer(di ModerationServerDI) *ModerationServer {
	return &ModerationServer{
		BaseServer:       NewBaseServer(di.Config, di.Logger),
		handlerTransport: di.HandlerTransport,
	}
}

func (s *ModerationServer) Run() error {
	s.setupHealthCheck()
	s.setupMetricsEndpoint()
	s.WithRouters(router.NewModerationRouter(s.handlerTransport))

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting moderation server")
	return s.Router.Listen(addr)
}

func (s *ModerationServer) Shutdown() error {
	return s.Router.Shutdown()
}

package app

import (
	httpMW "github.com/yungbote/mentoro/internal/http/middleware"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/session"
)

type Middleware struct {
	Session *httpMW.SessionMiddleware
}

func wireMiddleware(log *logger.Logger, sessions *session.Manager) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Session: httpMW.NewSessionMiddleware(log, sessions),
	}
}

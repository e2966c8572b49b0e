package testtool

import (
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on the default mux

	"messenger_service/pkg/config"
	"messenger_service/pkg/logger"

	"go.uber.org/zap"
)

// PprofAddr loopback only
const PprofAddr = "127.0.0.1:6060"

// StartPprof serve pprof outside production
func StartPprof() {
	if config.IsProduction() {
		logger.Log.Info("production environment, pprof disabled")
		return
	}

	go func() {
		logger.Log.Info("starting pprof", zap.String("addr", PprofAddr))
		if err := http.ListenAndServe(PprofAddr, nil); err != nil {
			logger.Log.Warn("pprof server stopped", zap.Error(err))
		}
	}()
}

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gamehub/config"
	"gamehub/core"
	"gamehub/gateway/routes"
	"gamehub/observability/logging"
	"gamehub/rpc"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("HUB_ENV"))
	logger := logging.Setup("hubd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	if env == "" && strings.TrimSpace(cfg.Env) != "" {
		logger = logging.Setup("hubd", cfg.Env)
	}

	session := core.NewSession(cfg.InitialState())
	logger.Info("Session started",
		slog.String("player", session.PlayerID()),
		slog.Int64("treasury", cfg.Economy.InitialTreasury))

	gatewayMux := http.NewServeMux()
	gatewayMux.Handle("/metrics", promhttp.Handler())
	gatewayMux.Handle("/", routes.New(session))
	go func() {
		logger.Info("Gateway listening", slog.String("address", cfg.GatewayAddress))
		if err := http.ListenAndServe(cfg.GatewayAddress, gatewayMux); err != nil {
			panic(fmt.Sprintf("Gateway server failed: %v", err))
		}
	}()

	server := rpc.NewServer(session)
	logger.Info("JSON-RPC listening", slog.String("address", cfg.RPCAddress))
	if err := server.Start(cfg.RPCAddress); err != nil {
		panic(fmt.Sprintf("RPC server failed: %v", err))
	}
}

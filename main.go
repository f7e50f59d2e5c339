package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"strategystudio/src/connectors"
	"strategystudio/src/database"
	"strategystudio/src/repository"
	"strategystudio/src/server"
	"strategystudio/src/service"
	"strategystudio/src/simulator"
)

var (
	PORT     = os.Getenv("SERVER_PORT")
	APP_NAME = os.Getenv("APP_NAME")
	EXECUTOR = os.Getenv("EXECUTOR")
)

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.DebugLevel
	}

	logger.SetLevel(level)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logger.SetFormatter(&logger.JSONFormatter{})
	} else {
		logger.SetFormatter(&logger.TextFormatter{
			FullTimestamp: true,
		})
	}
}

func buildExecutor(log *logger.Entry) service.Executor {
	switch strings.ToLower(EXECUTOR) {
	case "remote":
		cfg := connectors.GetConfig()
		log.WithField("base_url", cfg.BacktestBaseURL).Info("Using remote backtest executor")
		return connectors.NewBacktestClient(cfg.BacktestBaseURL, cfg.BacktestTimeout)
	default:
		return simulator.NewMock(log)
	}
}

func main() {
	SetupLogger()
	defer handlePanic()

	if err := database.InitMainDB(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	log := logger.WithField("app", APP_NAME)

	repo := repository.NewStrategyRepository()
	executor := buildExecutor(log)

	svc, err := service.NewStrategyService(context.Background(), log, repo, executor)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize strategy service")
	}

	port := PORT
	if port == "" {
		port = server.GetConfig().Port
	}
	server.StartServer(port, svc)
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}

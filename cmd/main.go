package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"strategystudio/src/connectors"
	"strategystudio/src/database"
	"strategystudio/src/model"
	"strategystudio/src/repository"
	"strategystudio/src/server"
	"strategystudio/src/service"
	"strategystudio/src/simulator"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "Strategy Studio CMD"
	app.Usage = "The strategy studio command line interface"
	app.Version = Version

	app.Commands = []cli.Command{
		serverCMD,
		simulateCMD,
		renderCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serverCMD = cli.Command{
		Name:        "server",
		Usage:       "run the API server",
		Action:      serverAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the strategy studio API server`,
	}
	simulateCMD = cli.Command{
		Name:        "simulate",
		Usage:       "submit a strategy and wait for the simulation result",
		Action:      simulateAction,
		ArgsUsage:   "<strategy-id>",
		Flags:       []cli.Flag{},
		Description: `Submit a stored strategy for simulation and block until it completes`,
	}
	renderCMD = cli.Command{
		Name:        "render",
		Usage:       "print the rule summaries of a stored strategy",
		Action:      renderAction,
		ArgsUsage:   "<strategy-id>",
		Flags:       []cli.Flag{},
		Description: `Render the scanner, buy and sell rules of a strategy as text`,
	}
)

func buildService(ctx context.Context) (*service.StrategyService, error) {
	if err := database.InitMainDB(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	log := logrus.WithField("cmd", "studio")

	var executor service.Executor
	if strings.EqualFold(os.Getenv("EXECUTOR"), "remote") {
		cfg := connectors.GetConfig()
		executor = connectors.NewBacktestClient(cfg.BacktestBaseURL, cfg.BacktestTimeout)
	} else {
		executor = simulator.NewMock(log)
	}

	return service.NewStrategyService(ctx, log, repository.NewStrategyRepository(), executor)
}

func serverAction(_ *cli.Context) error {
	logrus.Info("Starting API server CMD")

	svc, err := buildService(context.Background())
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = server.GetConfig().Port
	}
	server.StartServer(port, svc)
	return nil
}

func simulateAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: simulate <strategy-id>")
	}

	logrus.Info("Starting simulate CMD")

	ctx := context.Background()
	svc, err := buildService(ctx)
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	events, cancel := svc.Events().Subscribe()
	defer cancel()

	if _, err := svc.Submit(ctx, id, service.UpdateFields{}); err != nil {
		return err
	}

	timeout := time.After(10 * time.Minute)
	for {
		select {
		case event := <-events:
			if event.StrategyID != id {
				continue
			}
			switch {
			case event.Type == service.EventSimulationFailed:
				return fmt.Errorf("simulation failed for strategy %s", id)
			case event.Type == service.EventStatusChanged && event.Status == model.StatusCompleted:
				fmt.Printf("strategy %s completed with performance %s\n", id, event.Performance)
				return nil
			}
		case <-timeout:
			return fmt.Errorf("timed out waiting for simulation of strategy %s", id)
		}
	}
}

func renderAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: render <strategy-id>")
	}

	svc, err := buildService(context.Background())
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	strategy, err := svc.Get(id)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", strategy.Name, strategy.Status)
	fmt.Printf("Scanner: %s\n", strategy.ScannerRules.Render())
	fmt.Printf("Buy:     %s\n", strategy.BuyRules.Render())
	fmt.Printf("Sell:    %s\n", strategy.SellRules.Render())
	return nil
}

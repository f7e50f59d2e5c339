package connectors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BacktestBaseURL string        `envconfig:"BACKTEST_BASE_URL" default:"http://localhost:8090"`
	BacktestTimeout time.Duration `envconfig:"BACKTEST_TIMEOUT" default:"5m"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

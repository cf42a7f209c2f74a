package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/civitas/aquacast/internal/api"
	"github.com/civitas/aquacast/internal/forecast"
	"github.com/civitas/aquacast/internal/history"
	"github.com/civitas/aquacast/internal/model"
	"github.com/civitas/aquacast/internal/weather"
)

var cli struct {
	Port        string  `help:"HTTP server port." env:"PORT" default:"8000"`
	ModelDir    string  `help:"Directory containing trained model artifacts." env:"MODEL_DIR" default:"model"`
	History     string  `help:"Historical production table (.csv, .db or .sqlite)." env:"HISTORY_PATH" default:"model/pearland_merged_data.csv"`
	FrontendURL string  `help:"Allowed cross-origin caller." env:"FRONTEND_URL" default:"*"`
	Latitude    float64 `help:"Forecast latitude (defaults to Pearland, TX)." env:"FORECAST_LAT" default:"29.5636"`
	Longitude   float64 `help:"Forecast longitude (defaults to Pearland, TX)." env:"FORECAST_LON" default:"-95.2861"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("aquacast"),
		kong.Description("Water demand forecast API for Pearland, TX."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	// Pearland runs on Central Time; fall back to a fixed UTC-6 zone if the
	// tzdata is unavailable so "today" stays a civil date either way.
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		log.Printf("could not load America/Chicago timezone, using fixed UTC-6: %v", err)
		loc = time.FixedZone("CST", -6*60*60)
	}

	predictor := loadPredictor(cli.ModelDir, cli.History)

	wc := weather.NewClient(cli.Latitude, cli.Longitude, loc)
	server := api.NewServer(wc, predictor, loc, cli.Port, cli.FrontendURL)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// loadPredictor loads the model artifacts and historical production series.
// Either failing puts the service in degraded mode with simulated
// predictions; it never prevents startup.
func loadPredictor(modelDir, historyPath string) *forecast.Predictor {
	arts, err := model.Load(modelDir)
	if err != nil {
		log.Printf("could not load model artifacts: %v", err)
		log.Printf("running in demo mode with simulated predictions")
		return forecast.NewPredictor(nil, history.Stats{})
	}

	series, err := history.Load(historyPath)
	if err != nil {
		log.Printf("could not load historical data: %v", err)
		log.Printf("running in demo mode with simulated predictions")
		return forecast.NewPredictor(nil, history.Stats{})
	}

	stats, err := series.Stats()
	if err != nil {
		log.Printf("could not compute historical statistics: %v", err)
		log.Printf("running in demo mode with simulated predictions")
		return forecast.NewPredictor(nil, history.Stats{})
	}

	log.Printf("model and artifacts loaded: %d features, %d days of history", len(arts.FeatureColumns), stats.Days)
	return forecast.NewPredictor(arts, stats)
}

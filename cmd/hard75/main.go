package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	_ "hard75/docs"
	"hard75/internal/config"

	tracker "hard75/internal"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title           Hard75 API
// @version         1.0
// @description     API for the 75-day challenge tracking service
// @BasePath        /

func main() {
	var configPath string
	var addr string
	flag.StringVar(&configPath, "config", "hard75.toml", "Path to the TOML config file")
	flag.StringVar(&addr, "addr", "", "HTTP listen address (overrides config, e.g. ':8080')")
	flag.Parse()

	log.SetTimeFormat(time.Stamp)
	log.SetReportCaller(true)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	server, err := tracker.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}
	defer server.Close()

	mux := server.SetupRoutes()

	http.Handle("/", mux)
	http.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	log.Info("Server starting on", "addr", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, nil))
}

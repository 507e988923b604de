package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/contactkeval/covered-call/internal/backtest"
	"github.com/contactkeval/covered-call/internal/data"
	"github.com/contactkeval/covered-call/internal/report"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config (optional, defaults apply)")
	csvDir := flag.String("csv", "", "directory of <TICKER>.csv files to use as the data source")
	rest := flag.Bool("rest", false, "run as REST server (accept backtest jobs)")
	port := flag.String("port", ":8080", "REST server listen address")
	flag.Parse()

	var cfg backtest.Config
	if *configPath != "" {
		cfgData, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("reading config: %v", err)
		}
		if err := json.Unmarshal(cfgData, &cfg); err != nil {
			log.Fatalf("invalid config: %v", err)
		}
	}

	// choose provider
	var prov data.Provider
	apiKey := os.Getenv("POLYGON_API_KEY")
	switch {
	case *csvDir != "":
		prov = data.NewCSVDataProvider(*csvDir)
		log.Printf("[info] local csv provider enabled (%s)", *csvDir)
	case apiKey != "":
		prov = data.NewPolygonDataProvider(apiKey)
		log.Printf("[info] polygon provider enabled")
	default:
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		prov = data.NewSyntheticProvider(seed)
		log.Printf("[info] synthetic provider enabled (seed=%d)", seed)
	}

	engine := backtest.NewEngine(&cfg, prov)

	if *rest {
		r := mux.NewRouter()
		r.HandleFunc("/run", func(w http.ResponseWriter, req *http.Request) {
			log.Printf("[info] received /run request")
			res, err := engine.Run()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(res)
		}).Methods("GET", "POST")
		r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		}).Methods("GET")
		log.Printf("[info] starting REST server on %s", *port)
		log.Fatal(http.ListenAndServe(*port, r))
		return
	}

	start := time.Now()
	res, err := engine.Run()
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	fmt.Printf("Total Return of Covered Call Strategy: %.2f%%\n", res.Metrics.StrategyTotalReturn*100)
	fmt.Printf("Total Return of Buy and Hold Strategy: %.2f%%\n", res.Metrics.BuyHoldTotalReturn*100)
	fmt.Printf("Annualized Return of Covered Call Strategy: %.2f%%\n", res.Metrics.StrategyAnnualizedReturn*100)
	fmt.Printf("Annualized Return of Buy and Hold Strategy: %.2f%%\n", res.Metrics.BuyHoldAnnualizedReturn*100)

	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		log.Printf("[warn] could not create report dir %s: %v", cfg.ReportDir, err)
	}
	if err := report.WriteJSON(res, &cfg, cfg.ReportDir); err != nil {
		log.Printf("[warn] write summary.json: %v", err)
	}
	if err := report.WriteCSV(res, cfg.ReportDir); err != nil {
		log.Printf("[warn] write portfolio_values.csv: %v", err)
	}
	log.Printf("[done] finished in %v, %d simulated days, reports in %s",
		time.Since(start), len(res.Strategy), cfg.ReportDir)
}

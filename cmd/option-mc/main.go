package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/leekchan/accounting"

	"github.com/contactkeval/option-mc/internal/data"
	"github.com/contactkeval/option-mc/internal/report"
	"github.com/contactkeval/option-mc/internal/simulate"
)

func main() {
	configPath := flag.String("config", "pricer.json", "path to JSON config")
	rest := flag.Bool("rest", false, "run as REST server (price on demand)")
	port := flag.String("port", ":8080", "REST server listen address")
	samples := flag.Int("samples", 0, "override sample count from config")
	flag.Parse()

	cfgData, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}

	var cfg simulate.Config
	if err := json.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if *samples > 0 {
		cfg.Samples = *samples
	}

	// choose provider
	var prov data.Provider
	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey != "" {
		prov = data.NewPolygonDataProvider(apiKey)
		log.Printf("[info] polygon provider enabled")
	} else {
		prov = data.NewSyntheticProvider(cfg.Seed)
		log.Printf("[info] synthetic provider enabled")
	}

	if *rest {
		serveREST(*port, cfg, prov)
		return
	}

	start := time.Now()
	res, err := simulate.NewEngine(&cfg, prov).Run()
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "./out"
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Printf("[warn] could not create output dir %s: %v", cfg.OutputDir, err)
	}
	_ = report.WriteJSON(res, cfg.OutputDir)
	_ = report.WriteCSV(res.Summary.Histogram, cfg.OutputDir)

	ac := accounting.Accounting{Symbol: "$", Precision: 4}
	fmt.Printf("monte carlo price: %s  (analytic %s, 95%% CI %s..%s)\n",
		ac.FormatMoney(res.Estimate), ac.FormatMoney(res.Analytic),
		ac.FormatMoney(res.CILow), ac.FormatMoney(res.CIHigh))
	log.Printf("[done] %d samples in %v, reports in %s", res.Samples, time.Since(start), cfg.OutputDir)
}

// serveREST exposes the pricer over HTTP. Each /price request is an
// independent run of the pipeline with query-string overrides applied to a
// copy of the loaded config, so interactive callers can sweep parameters.
func serveREST(port string, base simulate.Config, prov data.Provider) {
	mux := http.NewServeMux()
	mux.HandleFunc("/price", func(w http.ResponseWriter, r *http.Request) {
		cfg := base
		q := r.URL.Query()
		if err := overrideFloats(q, map[string]*float64{
			"spot":   &cfg.Spot,
			"strike": &cfg.Strike,
			"rate":   &cfg.Rate,
			"vol":    &cfg.Vol,
			"expiry": &cfg.Expiry,
		}); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if v := q.Get("samples"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "samples: "+err.Error(), http.StatusBadRequest)
				return
			}
			cfg.Samples = n
		}
		if v := q.Get("seed"); v != "" {
			s, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				http.Error(w, "seed: "+err.Error(), http.StatusBadRequest)
				return
			}
			cfg.Seed = s
		}
		res, err := simulate.NewEngine(&cfg, prov).Run()
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	log.Printf("[info] starting REST server on %s", port)
	log.Fatal(http.ListenAndServe(port, mux))
}

func overrideFloats(q map[string][]string, dst map[string]*float64) error {
	for key, ptr := range dst {
		vs := q[key]
		if len(vs) == 0 || vs[0] == "" {
			continue
		}
		f, err := strconv.ParseFloat(vs[0], 64)
		if err != nil {
			return fmt.Errorf("%s: %v", key, err)
		}
		*ptr = f
	}
	return nil
}

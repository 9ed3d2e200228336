package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"delivery-route-optimizer/internal/adapters/distance"
	"delivery-route-optimizer/internal/adapters/repositories"
	"delivery-route-optimizer/internal/api"
	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/metrics"
	"delivery-route-optimizer/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, the distance metric) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	port := config.Get("PORT", "8080")
	solverConfigPath := config.Get("SOLVER_CONFIG", "")
	metric := config.Get("DISTANCE_METRIC", "euclidean")

	solverCfg, err := config.LoadSolverFile(solverConfigPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		log.Fatal(err)
	}

	metrics.Register()

	provider, err := distanceProvider(metric)
	if err != nil {
		log.Fatal(err)
	}
	instances := repositories.NewSqliteInstanceRepository(db, provider.Distance)
	runs := repositories.NewSqliteSolutionRepository(db)
	router := api.NewRouter(instances, runs, solverCfg.Genetic, solverCfg.Insertion)

	// The write timeout leaves room for full genetic runs on large
	// instances.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func distanceProvider(metric string) (ports.DistanceProvider, error) {
	switch metric {
	case "euclidean":
		return distance.NewEuclideanProvider(), nil
	case "haversine":
		return distance.NewHaversineProvider(), nil
	default:
		return nil, fmt.Errorf("distanceProvider: unknown metric %q (want euclidean or haversine)", metric)
	}
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

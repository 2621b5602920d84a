package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"noon-sync/adapters"
	"noon-sync/internal/catalog"
	"noon-sync/internal/normalize"
	"noon-sync/internal/types"
)

// cacheControl permits short-lived shared caching of sync responses.
// Advisory only; correctness never depends on it.
const cacheControl = "public, s-maxage=60, stale-while-revalidate=300"

// SyncErrorResponse is the failure payload of the sync endpoint.
type SyncErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// ImportResponse reports how many products a manual import replaced
// the catalog with.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// Server holds the API server configuration
type Server struct {
	logger *logrus.Logger
	config *types.Config
	source adapters.CatalogSource
	repo   *catalog.Repository
}

// NewServer creates a new API server
func NewServer() *Server {
	// Load .env file if present
	_ = godotenv.Load()

	// Setup logging
	logger := logrus.New()

	// Set timestamp format with milliseconds
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	config := loadConfig()
	unit := adapters.ResolveBusinessUnit(config.BusinessUnit, logger)
	norm := normalize.New(config.Currency, unit.Locale)

	var source adapters.CatalogSource
	if config.SyncSource == "seller" {
		source = adapters.NewSellerClient(config, norm, logger)
	} else {
		source = adapters.NewStorefrontScraper(config, norm, logger)
	}

	return &Server{
		logger: logger,
		config: config,
		source: source,
		repo:   catalog.NewRepository(norm, catalog.FallbackProducts(time.Now())),
	}
}

func loadConfig() *types.Config {
	config := types.DefaultConfig()
	if v := os.Getenv("STORE_URL"); v != "" {
		config.StoreURL = v
	}
	if v := os.Getenv("SELLER_API_URL"); v != "" {
		config.SellerAPIURL = v
	}
	if v := os.Getenv("STORE_CURRENCY"); v != "" {
		config.Currency = v
	}
	if v := os.Getenv("SYNC_SOURCE"); v != "" {
		config.SyncSource = v
	}
	config.AppID = os.Getenv("NOON_APP_ID")
	config.AppSecret = os.Getenv("NOON_APP_SECRET")
	if v := os.Getenv("NOON_BUSINESS_UNIT"); v != "" {
		config.BusinessUnit = v
	}
	return config
}

// handleProducts serves the sync endpoint: one fetch, one transform,
// no cross-request state.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	s.setCommonHeaders(w)

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := s.source.FetchCatalog(r.Context())
	if err != nil {
		s.sendSyncError(w, err)
		return
	}

	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(products); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

// handleImport accepts a manually pasted product array and replaces
// the catalog with it. Anything that is not a JSON array is rejected
// without touching existing state.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	s.setCommonHeaders(w)

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	count, err := s.repo.ImportJSON(body)
	if err != nil {
		s.logger.Warnf("Manual import rejected: %v", err)
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Infof("Manual import replaced catalog with %d products", count)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ImportResponse{Imported: count})
}

// handleCatalog serves the imported catalog and whole-record updates.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.setCommonHeaders(w)

	switch r.Method {
	case "OPTIONS":
		w.WriteHeader(http.StatusOK)
	case "GET":
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(s.repo.Products())
	case "PUT":
		var updated types.Product
		if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
			s.sendError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		stored, err := s.repo.Update(updated)
		if errors.Is(err, types.ErrProductNotFound) {
			s.sendError(w, "Product not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(stored)
	default:
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// sendSyncError maps pipeline failures onto the sync endpoint's
// failure contract, keeping the underlying detail visible.
func (s *Server) sendSyncError(w http.ResponseWriter, err error) {
	s.logger.Errorf("Sync failed: %v", err)

	message := "Could not retrieve live store data."
	var confErr *types.ConfigurationError
	if errors.As(err, &confErr) {
		message = "Set NOON_APP_ID and NOON_APP_SECRET in the environment."
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(SyncErrorResponse{
		Error:   "Sync Failed",
		Message: message,
		Details: err.Error(),
	})
}

func (s *Server) sendError(w http.ResponseWriter, message string, status int) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func main() {
	server := NewServer()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", server.handleProducts)
	mux.HandleFunc("/api/import", server.handleImport)
	mux.HandleFunc("/api/catalog", server.handleCatalog)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	server.logger.Infof("API server listening on :%s (source: %s)", port, server.config.SyncSource)
	log.Fatal(http.ListenAndServe(":"+port, mux))
}

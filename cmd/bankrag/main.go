// Package main is the bankrag CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atlasbank/bankrag/internal/chat"
	"github.com/atlasbank/bankrag/internal/cli"
	"github.com/atlasbank/bankrag/internal/config"
	"github.com/atlasbank/bankrag/internal/embedding"
	"github.com/atlasbank/bankrag/internal/kb"
	"github.com/atlasbank/bankrag/internal/models"
	"github.com/atlasbank/bankrag/internal/rag"
	"github.com/atlasbank/bankrag/internal/server"
	"github.com/atlasbank/bankrag/internal/storage"
	"github.com/atlasbank/bankrag/internal/watcher"
	"github.com/atlasbank/bankrag/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/bankrag/config.yaml"

// loadConfig loads config from path. When path is the default and a
// config.yaml exists in the current directory, that one wins, so running from
// the project directory picks up the project's config. A missing default
// config falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				return config.Load(fallback)
			}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "retrieve":
		runRetrieve()
	case "add":
		runAdd()
	case "remove":
		runRemove()
	case "list":
		runList()
	case "rebuild":
		runRebuild()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("bankrag version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	svc, store, err := buildService(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize service", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Initialize(ctx); err != nil {
		logger.Fatal("knowledge base initialization failed", zap.Error(err))
	}

	var watch *watcher.Watcher
	if cfg.Watch.Directory != "" {
		ingestor := watcher.NewIngestor(cfg.Watch.Directory, svc, logger)
		watch = watcher.New(
			cfg.Watch.Directory,
			cfg.Watch.Extensions,
			func(path string) { ingestor.IndexFile(context.Background(), path) },
			func(path string) { ingestor.RemoveFile(context.Background(), path) },
			logger,
		)
		if err := watch.Start(ctx); err != nil {
			logger.Fatal("failed to start policy watcher", zap.Error(err))
		}
		watch.SyncExisting()
	}

	srv := server.NewServer(svc, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	if watch != nil {
		watch.Stop()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// buildService wires the service from config. A missing OPENAI_API_KEY is not
// fatal: the service runs lexical-only and answers statically.
func buildService(cfg *config.Config, logger *zap.Logger) (*rag.Service, *storage.SQLiteStore, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")

	var embedder embedding.Embedder
	if apiKey != "" {
		e, err := embedding.NewOpenAIEmbedder(apiKey, cfg.OpenAI.EmbeddingModel, cfg.OpenAI.Dimensions, cfg.OpenAI.Timeout(), cfg.OpenAI.CacheSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		embedder = e
	} else {
		logger.Warn("OPENAI_API_KEY not set, running lexical-only")
	}

	var generator chat.Generator
	if apiKey != "" {
		g, err := chat.NewOpenAIGenerator(apiKey, cfg.OpenAI.ChatModel, cfg.OpenAI.Timeout())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create chat generator: %w", err)
		}
		generator = g
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document store: %w", err)
	}

	svc := rag.NewService(rag.Options{
		Embedder:       embedder,
		Generator:      generator,
		Store:          store,
		Seed:           kb.Documents(),
		IndexPath:      cfg.Storage.IndexPath,
		Dimension:      cfg.OpenAI.Dimensions,
		Logger:         logger,
		Temperature:    cfg.Chat.Temperature,
		MaxTokens:      cfg.Chat.MaxTokens,
		EmbeddingModel: cfg.OpenAI.EmbeddingModel,
		ChatModel:      cfg.OpenAI.ChatModel,
	})
	return svc, store, nil
}

// clientFlags are the flags shared by all HTTP client commands.
func clientFlags(name string) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	output := fs.String("output", "text", "output format: text or json")
	return fs, serverURL, output
}

// queryArgs joins positional args so multi-word queries work with or without
// shell quoting.
func queryArgs(fs *flag.FlagSet) string {
	return strings.TrimSpace(strings.Join(fs.Args(), " "))
}

func parseFormatOrExit(s string) cli.OutputFormat {
	format, err := cli.ParseFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

func runAsk() {
	fs, serverURL, output := clientFlags("ask")
	topK := fs.Int("top-k", 0, "number of grounding documents (0 = server default)")
	_ = fs.Parse(os.Args[2:])
	query := queryArgs(fs)
	if query == "" {
		fmt.Println("Usage: bankrag ask [flags] <question>")
		os.Exit(1)
	}
	format := parseFormatOrExit(*output)

	var resp models.AskResponse
	if err := postJSON(*serverURL+"/api/v1/ask", models.AskRequest{Query: query, TopK: *topK}, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAskResponse(os.Stdout, &resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runRetrieve() {
	fs, serverURL, output := clientFlags("retrieve")
	topK := fs.Int("top-k", 0, "number of documents (0 = server default)")
	_ = fs.Parse(os.Args[2:])
	query := queryArgs(fs)
	if query == "" {
		fmt.Println("Usage: bankrag retrieve [flags] <query>")
		os.Exit(1)
	}
	format := parseFormatOrExit(*output)

	var resp struct {
		Results []*models.RetrievalResult `json:"results"`
	}
	if err := postJSON(*serverURL+"/api/v1/retrieve", models.RetrieveRequest{Query: query, TopK: *topK}, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Retrieve failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRetrievalResults(os.Stdout, resp.Results, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runAdd() {
	fs, serverURL, _ := clientFlags("add")
	id := fs.String("id", "", "document id (generated when empty)")
	title := fs.String("title", "", "document title")
	category := fs.String("category", "", "document category")
	source := fs.String("source", "", "document source")
	content := fs.String("content", "", "document content (reads stdin when empty)")
	_ = fs.Parse(os.Args[2:])

	body := *content
	if body == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read stdin failed: %v\n", err)
			os.Exit(1)
		}
		body = strings.TrimSpace(string(data))
	}

	input := models.DocumentInput{ID: *id, Title: *title, Content: body, Category: *category, Source: *source}
	var resp map[string]string
	if err := postJSON(*serverURL+"/api/v1/documents", input, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Add failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document added: %s\n", resp["id"])
}

func runRemove() {
	fs, serverURL, _ := clientFlags("remove")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Println("Usage: bankrag remove [flags] <document-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/documents/"+url.PathEscape(id), nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Remove failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Remove failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	fmt.Printf("Document removed: %s\n", id)
}

func runList() {
	fs, serverURL, output := clientFlags("list")
	_ = fs.Parse(os.Args[2:])
	format := parseFormatOrExit(*output)

	var resp struct {
		Documents []models.DocumentSummary `json:"documents"`
	}
	if err := getJSON(*serverURL+"/api/v1/documents", &resp); err != nil {
		fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteDocumentList(os.Stdout, resp.Documents, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runRebuild() {
	fs, serverURL, _ := clientFlags("rebuild")
	_ = fs.Parse(os.Args[2:])

	var resp struct {
		IndexSize int `json:"index_size"`
	}
	if err := postJSON(*serverURL+"/api/v1/index/rebuild", nil, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Index rebuilt: %d vectors\n", resp.IndexSize)
}

func runStatus() {
	fs, serverURL, output := clientFlags("status")
	_ = fs.Parse(os.Args[2:])
	format := parseFormatOrExit(*output)

	var h rag.HealthStatus
	if err := getJSON(*serverURL+"/api/v1/status", &h); err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteStatus(os.Stdout, &h, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func postJSON(endpoint string, payload, out interface{}) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return err
		}
	}
	resp, err := http.Post(endpoint, "application/json", &body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func getJSON(endpoint string, out interface{}) error {
	resp, err := http.Get(endpoint)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func printUsage() {
	fmt.Println(`bankrag - Banking policy question answering service

Usage:
  bankrag server [flags]              Start the HTTP server
  bankrag ask [flags] <question>      Ask a question against the knowledge base
  bankrag retrieve [flags] <query>    Retrieve relevant policy documents
  bankrag add [flags]                 Add a document (content via flag or stdin)
  bankrag remove [flags] <id>         Remove a document
  bankrag list [flags]                List documents
  bankrag rebuild [flags]             Rebuild the vector index
  bankrag status [flags]              Show service status
  bankrag version                     Show version
  bankrag help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/bankrag/config.yaml)
  --debug            Enable debug logging

Client Flags (ask, retrieve, add, remove, list, rebuild, status):
  --server string    Server URL (default: http://localhost:8080)
  --output string    Output format: text or json (default: text)
  --top-k int        Number of documents for ask/retrieve (0 = server default)

Examples:
  bankrag server
  bankrag ask "What are the requirements for a personal loan?"
  bankrag retrieve --top-k 5 mortgage rates
  bankrag add --title "Wire Limits" --category transfers --source policy.pdf --content "..."
  bankrag remove doc_004
  bankrag status --output json

The OPENAI_API_KEY environment variable (or a .env file) enables semantic
retrieval and generated answers; without it the service runs lexical-only.`)
}

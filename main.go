// Command robots runs the Robots chase game.
//
// Subcommands:
//  1. "server" (default) runs the HTTP server exposing the REST API, WebSocket updates and an /mcp endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" plays in the terminal
//  4. "scores" prints the stored high scores
//
// Flags control host/port, config directory, the high-score store, debug
// logging and optional ngrok tunneling. Every flag also reads an environment
// variable, and a .env file in the working directory is loaded first.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/robots-game/api"
	"github.com/wricardo/robots-game/game/config"
	"github.com/wricardo/robots-game/game/engine"
	"github.com/wricardo/robots-game/game/scores"
	"github.com/wricardo/robots-game/game/service"
	"github.com/wricardo/robots-game/game/session"
	"github.com/wricardo/robots-game/logger"
	"github.com/wricardo/robots-game/terminal"
	"github.com/wricardo/robots-game/transport/mcp"
	"github.com/wricardo/robots-game/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Robots Game Server"
)

// Session retention
const (
	sessionMaxAge       = 24 * time.Hour
	sessionCleanupEvery = time.Hour
)

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newCommand()
	cmd.Before = func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if envErr != nil && !os.IsNotExist(envErr) {
			logger.Log.WithError(envErr).Warn("Error loading .env file")
		}
		return ctx, nil
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		logger.Log.WithError(err).Fatal("robots failed")
	}
}

// newCommand builds the root command and its subcommands
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "robots",
		Usage:   "Turn-based chase game: lure the pursuers into each other",
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "scores-dsn",
				Value:   "scores.txt",
				Usage:   "High-score store: a file path, \"memory\" or a postgres:// URL",
				Sources: cli.EnvVars("SCORES_DSN"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  runServer,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, starting an internal HTTP server when none is running",
				Action:  runStdioMCP,
			},
			{
				Name:  "play",
				Usage: "Play in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Value: "classic",
						Usage: "Configuration name",
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Random seed (0 picks one from the clock)",
					},
					&cli.BoolFlag{
						Name:    "sound",
						Usage:   "Beep on crashes and level ends",
						Sources: cli.EnvVars("ROBOTS_SOUND"),
					},
					&cli.StringFlag{
						Name:  "log-file",
						Usage: "Write logs to this file while playing",
					},
				},
				Action: runPlay,
			},
			{
				Name:   "scores",
				Usage:  "Print stored high scores",
				Action: runScores,
			},
		},
	}
}

// setupLogging points the shared logger at out and applies --debug
func setupLogging(cmd *cli.Command, out io.Writer) {
	logger.InitWithOutput(out)
	if cmd.Bool("debug") {
		logger.Log.SetLevel(logrus.DebugLevel)
		logger.Log.SetReportCaller(true)
	}
}

// services groups what initializeServices wires together
type services struct {
	Game     service.GameService
	Sessions *session.Manager
	Scores   scores.Store
}

// initializeServices wires session/config managers, the score store and the game service
func initializeServices(ctx context.Context, configDir, scoresDSN string) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	store, err := scores.Open(ctx, scoresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open score store: %w", err)
	}

	sessionManager := session.NewManager()

	return &services{
		Game:     service.NewGameService(sessionManager, configManager, store),
		Sessions: sessionManager,
		Scores:   store,
	}, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				logger.Log.WithField("removed", removed).Info("Cleaned up expired sessions")
			}
		}
	}
}

// mcpHandler serves MCP JSON-RPC messages posted to /mcp
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter mounts the REST API at the root and the MCP proxy at /mcp
func newRouter(apiServer http.Handler, baseURL string) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", mcpHandler(mcp.NewClient(baseURL)))
	return router
}

// runServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// When ngrok is enabled it also provisions a public tunnel.
func runServer(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd, os.Stdout)
	logger.Log.Infof("Starting %s v%s", AppName, Version)

	svc, err := initializeServices(ctx, cmd.String("config-dir"), cmd.String("scores-dsn"))
	if err != nil {
		return err
	}
	defer svc.Scores.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go sessionCleanupRoutine(ctx, svc.Sessions)

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	router := newRouter(api.NewServer(svc.Game, hub), "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Log.WithFields(logrus.Fields{
			"rest":      fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Infof("HTTP server listening on %s", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), router)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Log.Info("Shutting down...")
	case err = <-serveErr:
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Log.WithError(shutdownErr).Error("HTTP server shutdown error")
	}

	wg.Wait()
	logger.Log.Info("Server stopped")
	return err
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		logger.Log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	logger.Log.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Log.WithField("domain", domain).Info("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	logger.Log.WithFields(logrus.Fields{
		"rest":      ngrokURL + "/api",
		"websocket": ngrokURL + "/ws?session=<session_id>",
		"mcp":       ngrokURL + "/mcp",
	}).Infof("Ngrok tunnel established: %s", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		logger.Log.WithError(err).Error("Ngrok server error")
	}
	logger.Log.Info("Ngrok tunnel closed")
}

// externalAPIAvailable reports whether a game server already answers at baseURL
func externalAPIAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// startInternalAPI serves the REST API on a random loopback port and returns its base URL
func startInternalAPI(gameService service.GameService) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
	httpServer.RegisterOnShutdown(hub.Stop)

	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Error("Internal HTTP server error")
		}
	}()

	return "http://" + listener.Addr().String(), httpServer, nil
}

// runStdioMCP runs an MCP stdio server. It reuses a game server on the
// configured port when one answers, and otherwise starts an internal API on a
// random loopback port. Logs go to stderr since stdout carries the protocol.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd, os.Stderr)

	baseURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), cmd.Int("port"))
	logger.Log.Infof("Checking for external API server at %s...", baseURL)

	if externalAPIAvailable(baseURL) {
		logger.Log.Info("MCP stdio server ready (using external HTTP server)")
	} else {
		svc, err := initializeServices(ctx, cmd.String("config-dir"), cmd.String("scores-dsn"))
		if err != nil {
			return err
		}
		defer svc.Scores.Close()

		var httpServer *http.Server
		baseURL, httpServer, err = startInternalAPI(svc.Game)
		if err != nil {
			return err
		}
		defer httpServer.Close()
		logger.Log.Infof("MCP stdio server ready (using internal HTTP server on %s)", baseURL)
	}

	if err := mcp.NewClient(baseURL).ServeStdio(); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runPlay plays one game in the terminal
func runPlay(ctx context.Context, cmd *cli.Command) error {
	logOut := io.Discard
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	setupLogging(cmd, logOut)

	configManager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}
	cfg, err := configManager.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	store, err := scores.Open(ctx, cmd.String("scores-dsn"))
	if err != nil {
		return fmt.Errorf("failed to open score store: %w", err)
	}
	defer store.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}
	finish := sync.OnceFunc(screen.Fini)
	defer finish()

	w, h := screen.Size()
	fitted, err := terminal.FitConfig(cfg, w, h)
	if err != nil {
		return err
	}

	rng := engine.NewRandFromTime()
	if seed := cmd.Int("seed"); seed != 0 {
		rng = engine.NewRand(int64(seed))
	}
	game, err := engine.NewEngine(fitted, rng)
	if err != nil {
		return err
	}

	sounder := terminal.Silent()
	if cmd.Bool("sound") {
		sounder = terminal.NewBeeper()
	}
	defer sounder.Close()

	res, err := terminal.Run(ctx, screen, game, store, terminal.Options{Sounder: sounder})
	finish()
	if err != nil && ctx.Err() == nil {
		return err
	}

	out := cmd.Root().Writer
	fmt.Fprintf(out, "level: %d, score: %d\n", res.Level, res.Score)
	switch {
	case res.RecordErr != nil:
		fmt.Fprintf(out, "score not saved: %v\n", res.RecordErr)
	case res.NewHighScore:
		fmt.Fprintln(out, "new high score!")
	}
	return nil
}

// runScores prints the stored scores, best first
func runScores(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd, os.Stderr)

	store, err := scores.Open(ctx, cmd.String("scores-dsn"))
	if err != nil {
		return fmt.Errorf("failed to open score store: %w", err)
	}
	defer store.Close()

	list, err := store.Scores(ctx)
	if err != nil {
		return fmt.Errorf("failed to read scores: %w", err)
	}

	out := cmd.Root().Writer
	if len(list) == 0 {
		fmt.Fprintln(out, "No high scores recorded yet.")
		return nil
	}
	for i := len(list) - 1; i >= 0; i-- {
		fmt.Fprintf(out, "%2d. %d\n", len(list)-i, list[i])
	}
	return nil
}

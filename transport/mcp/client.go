package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/robots-game/game/engine"
	"github.com/wricardo/robots-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// commandNames lists every command the act tools accept
func commandNames() []string {
	names := make([]string, 0, len(engine.Symbols))
	for _, sym := range engine.Symbols {
		names = append(names, sym.String())
	}
	return names
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Robots",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Robots - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Survive while pursuers (+) chase you (@). Pursuers that collide become wreckage (*).
Clear every pursuer to finish a level. Each turn, every pursuer steps one cell toward you.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage games
- game_state: current board, score, level and safe moves
- act: play one command - requires intent explanation
- bulk_act: play several commands, stopping at the first rejected move or game end
- next_level: start the next level after clearing one
- restart: start over at level 1
- move_history: past turns
- list_configs: available arenas
- high_scores: stored high scores
- game_instructions: full rules
- describe_cell: what occupies one cell

NOTE: The 'intent' parameter on act/bulk_act serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with the board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "act",
		Description: "Play one turn. Steps move one cell in eight directions; random jumps to a random cell; freeze toggles holding the pursuers; quit ends the game.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"command": map[string]interface{}{
					"type":        "string",
					"enum":        commandNames(),
					"description": "Command to play",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Why you chose this command",
				},
			},
			Required: []string{"session_id", "command"},
		},
	}, c.handleAct)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_act",
		Description: fmt.Sprintf("Play up to %d commands in order. Stops on a rejected move, capture, quit or a cleared level.", engine.MaxBulkActions),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"commands": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": commandNames(),
					},
					"description": "Commands to play",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Plan behind this sequence",
				},
			},
			Required: []string{"session_id", "commands"},
		},
	}, c.handleBulkAct)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "next_level",
		Description: "Start the next level after the current one is cleared",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleNextLevel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Start over at level 1 with zero score",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the turn history of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Turns per page (default 20)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available arena configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "high_scores",
		Description: "List stored high scores",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleHighScores)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules and strategy notes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe what occupies the cell at (x, y)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column, 0 at the left",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row, 0 at the top",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeStdio serves the tools over stdin and stdout until the client disconnects
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)
	if configID == "" {
		configID, _ = args["config_name"].(string)
	}

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		level, score, status := 0, 0, ""
		if s.GameState != nil {
			level, score, status = s.GameState.Level, s.GameState.Score, string(s.GameState.Status)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Level %d, Score %d, %s, Created: %s)\n",
			s.ID, s.ConfigName, level, score, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	command, _ := args["command"].(string)
	if command == "" {
		return mcp.NewToolResultError("command is required"), nil
	}

	var result service.ActResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/act"), map[string]string{"command": command}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActResult(&result)), nil
}

func (c *Client) handleBulkAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	raw, _ := args["commands"].([]interface{})
	commands := make([]string, 0, len(raw))
	for _, v := range raw {
		if cmd, ok := v.(string); ok {
			commands = append(commands, cmd)
		}
	}

	var result service.BulkActResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-act"), map[string]interface{}{"commands": commands}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkActResult(sessionID, &result)), nil
}

func (c *Client) stateTransition(ctx context.Context, request mcp.CallToolRequest, suffix string) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, suffix), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleNextLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateTransition(ctx, request, "/next-level")
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateTransition(ctx, request, "/restart")
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Arena: %dx%d, Pursuers: %d per level up to %d\n\n",
			config.Name, config.ConfigID, config.Description, config.Width, config.Height,
			config.PursuersPerLevel, config.MaxPursuers)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleHighScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scores service.HighScores
	if err := c.apiCall(ctx, "GET", "/api/scores", nil, &scores); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(scores.Scores) == 0 {
		return mcp.NewToolResultText("No high scores recorded yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Highest score: %d\n\nRecorded scores:\n", scores.Highest)
	for i := len(scores.Scores) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "  %d\n", scores.Scores[i])
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`Robots - Complete Instructions

GAME OBJECTIVE:
Survive the pursuers. Every pursuer you destroy scores a point, and clearing a
level adds a bonus of level × level_bonus.

BOARD LEGEND:
  @  you
  +  pursuer
  *  wreckage (permanent)
  (space or .) empty cell
  #  outside the arena (only in local_view_3x3)

TURN ORDER:
1. Your command is applied.
2. Every pursuer steps one cell toward you, diagonally when needed.
3. Pursuers that land on the same cell become wreckage and score one point each.
4. Pursuers that land on wreckage are destroyed and score one point each.
5. If a pursuer or wreckage is on your cell you are caught and the game ends.

COMMANDS:
  up, down, left, right, up-left, up-right, down-left, down-right
  stay      - keep still while pursuers advance
  random    - jump to a random cell (it can land next to a pursuer)
  freeze    - toggle holding the pursuers still for following turns
  quit      - end the game and record your score
Moving off the edge keeps you at the edge. Moving onto a pursuer or wreckage is
rejected and costs no turn.

STRATEGY:
• Line pursuers up so two of them reach the same cell on the same turn.
• Keep wreckage between you and pursuers; they crash into it.
• Check safe_moves in game_state before acting. A move is safe when no pursuer
  can reach the target next turn.
• Use bulk_act (max %d commands) for planned sequences. It stops at the first
  rejected move so you can re-plan.

LEVELS:
Each level adds pursuers up to the arena's max_pursuers. After clearing a level
call next_level. After capture or quit, call restart.

Good luck surviving the Robots!`, engine.MaxBulkActions)

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}
	x, y := int(xf), int(yf)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, x, y)), nil
}

func describeCell(state *engine.GameState, x, y int) string {
	f := state.Field
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return fmt.Sprintf("Coordinates (%d, %d) are outside the %dx%d arena (x 0-%d, y 0-%d).",
			x, y, f.Width, f.Height, f.Width-1, f.Height-1)
	}

	kind := engine.Empty
	pos := engine.Position{X: x, Y: y}
	switch {
	case pos == f.Player:
		kind = engine.Player
	case containsPosition(f.Wreckage, pos):
		kind = engine.Wreckage
	case containsPosition(f.Pursuers, pos):
		kind = engine.Pursuer
	}

	var description string
	switch kind {
	case engine.Player:
		description = "Your current position."
	case engine.Pursuer:
		description = "A pursuer. Moving here is rejected."
	case engine.Wreckage:
		description = "Wreckage. Moving here is rejected; pursuers that step here are destroyed."
	default:
		description = "Empty. You may move here."
	}

	dist := engine.ChebyshevDistance(f.Player, pos)
	return fmt.Sprintf("Cell (%d, %d): %s '%c'\n%s\nDistance from you: %d",
		x, y, kind, kind.Glyph(), description, dist)
}

func containsPosition(list []engine.Position, p engine.Position) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format(time.RFC3339),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Level: %d  Score: %d  Status: %s  Pursuers left: %d\n",
		state.Level, state.Score, state.Status, state.PursuersLeft)
	fmt.Fprintf(&b, "Player at %s", state.Field.Player)
	if state.Frozen {
		b.WriteString("  (pursuers frozen)")
	}
	b.WriteString("\n")
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}

	b.WriteString("\n")
	b.WriteString(engine.FormatRows(state.Field))

	if state.Threat != "" {
		fmt.Fprintf(&b, "\nThreat: %s\n", state.Threat)
	}
	if len(state.SafeMoves) > 0 {
		fmt.Fprintf(&b, "Safe moves: %s\n", strings.Join(state.SafeMoves, ", "))
	} else if state.Status == engine.StatusPlaying {
		b.WriteString("Safe moves: none, consider random\n")
	}
	if len(state.LocalView3x3) == 3 {
		fmt.Fprintf(&b, "Around you:\n  %s\n  %s\n  %s\n",
			state.LocalView3x3[0], state.LocalView3x3[1], state.LocalView3x3[2])
	}

	switch state.Status {
	case engine.StatusWon:
		b.WriteString("\nLevel cleared! Call next_level to continue.\n")
	case engine.StatusLost, engine.StatusQuit:
		b.WriteString("\nGame over. Call restart to play again.\n")
	}
	return b.String()
}

func formatHighScore(update *service.HighScoreUpdate) string {
	if update == nil {
		return ""
	}
	if update.Error != "" {
		return fmt.Sprintf("Final score %d could not be saved: %s\n", update.Score, update.Error)
	}
	if update.NewHighScore {
		return fmt.Sprintf("NEW HIGH SCORE: %d\n", update.Score)
	}
	return fmt.Sprintf("Final score: %d\n", update.Score)
}

func formatActResult(result *service.ActResult) string {
	var b strings.Builder
	turn := result.Turn

	switch turn.Kind {
	case engine.TurnRejected:
		target := ""
		if turn.Attempted != nil {
			target = " to " + turn.Attempted.String()
		}
		fmt.Fprintf(&b, "✗ %s%s rejected: %s\n", turn.Action, target, result.Message)
	case engine.TurnSkipped:
		fmt.Fprintf(&b, "✗ %s\n", result.Message)
	case engine.TurnIgnored:
		fmt.Fprintf(&b, "✗ %s\n", result.Message)
	default:
		fmt.Fprintf(&b, "✓ %s %s -> %s", turn.Action, turn.From, turn.To)
		if turn.Outcome.ScoreDelta > 0 {
			fmt.Fprintf(&b, " (+%d)", turn.Outcome.ScoreDelta)
		}
		if turn.Bonus > 0 {
			fmt.Fprintf(&b, " (+%d bonus)", turn.Bonus)
		}
		b.WriteString("\n")
	}

	b.WriteString(formatHighScore(result.HighScore))
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkActResult(sessionID string, result *service.BulkActResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: executed %d/%d commands\n", sessionID, result.ActionsExecuted, result.RequestedActions)
	if result.Truncated {
		fmt.Fprintf(&b, "Input truncated to %d commands\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped (%s): %s\n", result.StopReasonCode, result.StoppedReason)
	}
	fmt.Fprintf(&b, "Position %s -> %s, score %d -> %d (%+d)\n",
		result.StartPos, result.EndPos, result.StartScore, result.EndScore, result.ScoreDelta)

	if len(result.Turns) > 0 {
		b.WriteString("\nTurns:\n")
		for i, turn := range result.Turns {
			fmt.Fprintf(&b, "  %d. %-10s %s -> %s %s", i+1, turn.Action, turn.From, turn.To, turn.Kind)
			if turn.Outcome.ScoreDelta > 0 {
				fmt.Fprintf(&b, " +%d", turn.Outcome.ScoreDelta)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(formatHighScore(result.HighScore))
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (page %d/%d, %d total):\n\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, m := range history.Moves {
		status := "✓"
		if !m.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%s #%d L%d %-10s %s -> %s", status, m.MoveNumber, m.Level, m.Action, m.FromPosition, m.ToPosition)
		if m.ScoreDelta > 0 {
			fmt.Fprintf(&b, " +%d", m.ScoreDelta)
		}
		b.WriteString("\n")
	}
	if history.HasNext {
		fmt.Fprintf(&b, "\nMore turns on page %d\n", history.Page+1)
	}
	return b.String()
}

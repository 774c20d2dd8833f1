package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/match"
	"github.com/peterkuimelis/poisontraders/internal/protocol"
)

var (
	sessionMu sync.Mutex
	// activeSession is the singleton game session (one per stdio process).
	activeSession *GameSession
)

// rules is the rule set new games use, set by main.
var rules = game.DefaultRules()

// logger receives match lifecycle logs, set by main.
var logger logrus.FieldLogger = logrus.StandardLogger()

// SetRules sets the rule set for new games.
func SetRules(rs *game.RuleSet) {
	rules = rs
}

// SetLogger sets the logger for new games.
func SetLogger(l logrus.FieldLogger) {
	logger = l
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(getGameStateTool(), handleGetGameState)
	s.AddTool(drawTool(), handleDraw)
	s.AddTool(makeOfferTool(), handleMakeOffer)
	s.AddTool(acceptTool(), handleAccept)
	s.AddTool(challengeTool(), handleChallenge)
	s.AddTool(chooseOptionTool(), handleChooseOption)
	s.AddTool(keepTool(), handleKeep)
	s.AddTool(advanceTool(), handleAdvance)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Poison Traders game against AI opponents. You play one seat; every other seat is AI. "+
			"Returns your private view of the table and the events so far. Seats and card indices are 0-based."),
		mcp.WithNumber("players", mcp.Required(), mcp.Description("Number of players at the table")),
		mcp.WithNumber("seat", mcp.Description("Your seat (default 0)")),
		mcp.WithNumber("seed", mcp.Description("Random seed for a reproducible game (default: time based)")),
		mcp.WithBoolean("restart", mcp.Description("Abandon the running game, if any")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get your view of the table and any events since the last call without acting. Read-only."),
	)
}

func drawTool() mcp.Tool {
	return mcp.NewTool("draw",
		mcp.WithDescription("Draw the top card of the deck. Only legal at the start of your turn."),
	)
}

func makeOfferTool() mcp.Tool {
	return mcp.NewTool("make_offer",
		mcp.WithDescription("Offer one of your hidden cards face down to another living player, claiming it is a resource type. "+
			"The claim may be a bluff. Poison can never be claimed."),
		mcp.WithNumber("card", mcp.Required(), mcp.Description("Index of the hidden card in your hand")),
		mcp.WithString("claim", mcp.Required(), mcp.Description("Claimed type: Gold, Shield, Potion or Dagger")),
		mcp.WithNumber("target", mcp.Required(), mcp.Description("Seat of the player receiving the offer")),
	)
}

func acceptTool() mcp.Tool {
	return mcp.NewTool("accept",
		mcp.WithDescription("Accept the offer made to you. You receive the card face down and give the offerer one of your cards in return."),
		mcp.WithNumber("return_card", mcp.Description("Index of the card to give back. Required when you hold more than one card")),
	)
}

func challengeTool() mcp.Tool {
	return mcp.NewTool("challenge",
		mcp.WithDescription("Challenge the offer made to you. The card is revealed; whoever is wrong must expose a card."),
	)
}

func chooseOptionTool() mcp.Tool {
	return mcp.NewTool("choose_option",
		mcp.WithDescription("Answer a pending choice, such as which card to expose as a penalty. Options are listed in state.choice."),
		mcp.WithString("option", mcp.Required(), mcp.Description("Option id from state.choice.options")),
	)
}

func keepTool() mcp.Tool {
	return mcp.NewTool("keep",
		mcp.WithDescription("End your turn without offering. Only legal when you have no hidden card to offer."),
	)
}

func advanceTool() mcp.Tool {
	return mcp.NewTool("advance",
		mcp.WithDescription("Move on to the next turn once the current one is resolved."),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession != nil {
		if !request.GetBool("restart", false) {
			return mcp.NewToolResultError("A game is already running. Pass restart=true to abandon it."), nil
		}
		activeSession.close()
		activeSession = nil
	}

	players := request.GetInt("players", 0)
	seat := request.GetInt("seat", 0)
	if players < rules.MinPlayers || players > rules.MaxPlayers() {
		return mcp.NewToolResultErrorf("players must be between %d and %d", rules.MinPlayers, rules.MaxPlayers()), nil
	}
	if seat < 0 || seat >= players {
		return mcp.NewToolResultErrorf("seat must be between 0 and %d", players-1), nil
	}

	sess, err := NewGameSession(match.Config{
		Game: game.Config{
			NumPlayers: players,
			Seed:       int64(request.GetInt("seed", 0)),
			Rules:      rules,
		},
		Log: logger,
	}, seat)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	activeSession = sess
	logger.WithFields(sess.logFields()).Info("mcp game started")

	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, res := session()
	if sess == nil {
		return res, nil
	}
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func handleDraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(protocol.Command{Type: match.KindDraw})
}

func handleMakeOffer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(protocol.Command{
		Type:   match.KindOffer,
		Card:   request.GetInt("card", -1),
		Claim:  request.GetString("claim", ""),
		Target: request.GetInt("target", -1),
	})
}

func handleAccept(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := protocol.Command{Type: match.KindAccept}
	if idx := request.GetInt("return_card", -1); idx >= 0 {
		cmd.Return = &idx
	}
	return run(cmd)
}

func handleChallenge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(protocol.Command{Type: match.KindChallenge})
}

func handleChooseOption(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(protocol.Command{Type: match.KindChoose, Option: request.GetString("option", "")})
}

func handleKeep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(protocol.Command{Type: match.KindKeep})
}

func handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(protocol.Command{Type: match.KindAdvance})
}

// session returns the running session, or an error result when there is none.
func session() (*GameSession, *mcp.CallToolResult) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession == nil {
		return nil, mcp.NewToolResultError("No game is running. Use start_game first.")
	}
	return activeSession, nil
}

// run applies cmd to the running session. A refused command is reported as
// a tool error carrying the full response so the agent can recover.
func run(cmd protocol.Command) (*mcp.CallToolResult, error) {
	sess, res := session()
	if sess == nil {
		return res, nil
	}
	resp := sess.apply(cmd)
	if resp.Error != "" {
		return mcp.NewToolResultError(respondJSON(resp)), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

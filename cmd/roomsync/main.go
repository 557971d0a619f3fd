package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/logger"
	"github.com/gabrielcapilla/roomsync/internal/ports"
	"github.com/gabrielcapilla/roomsync/internal/services/auth"
	"github.com/gabrielcapilla/roomsync/internal/services/config"
	"github.com/gabrielcapilla/roomsync/internal/services/realtime"
	"github.com/gabrielcapilla/roomsync/internal/services/state"
	"github.com/gabrielcapilla/roomsync/internal/services/storage"
	"github.com/gabrielcapilla/roomsync/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

const shutdownTimeout = 3 * time.Second

func main() {
	configDir := flag.String("config", config.DefaultDir(), "directory holding config.yml, the database and the log")
	token := flag.String("token", "", "store this bearer token for the room server before connecting")
	roomID := flag.Int64("room", 0, "room to join, overriding room.id from the config")
	flag.Parse()

	if err := run(*configDir, *token, *roomID); err != nil {
		fmt.Fprintf(os.Stderr, "roomsync: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, token string, roomID int64) error {
	cfg, err := config.NewViperConfigService(configDir).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if roomID != 0 {
		cfg.Room.ID = roomID
	}
	cfg.Room.ReactionDestination = realtime.ExpandRoom(cfg.Room.ReactionDestination, cfg.Room.ID)

	logFile, err := logger.Setup(configDir, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	db, err := storage.NewBboltStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	tokens := auth.NewStoredTokenSource(db, cfg.Auth.TokenKey)
	if token != "" {
		if err := tokens.Save(token); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
	}
	if stored, err := tokens.Token(); err == nil {
		if exp, ok := auth.ExpiresAt(stored); ok {
			logger.Log.Info().Time("expires_at", exp).Msg("Loaded bearer token")
		}
	}

	store := state.NewStore()
	store.Listen(state.HistoryRecorder(cfg.Room.ID, db))

	client := realtime.NewClient(
		realtime.OptionsFromConfig(cfg),
		tokens,
		store,
		realtime.STOMPDialer{Logger: logger.STOMP{Logger: logger.Log}},
	)

	p := tea.NewProgram(ui.InitialModel(client, db, cfg), tea.WithAltScreen())

	store.Listen(func(c state.Change) {
		if msg := ui.ChangeMsg(c); msg != nil {
			p.Send(msg)
		}
	})
	client.OnStatus(func(s domain.SessionStatus) { p.Send(ui.StatusMsg(s)) })

	if notice := tokenNotice(tokens); notice != "" {
		go p.Send(ports.NoticeMsg{Text: notice})
	}

	logger.Log.Info().Int64("room", cfg.Room.ID).Str("url", cfg.Broker.URL).Msg("Joining room")
	client.Connect()

	_, runErr := p.Run()

	client.Disconnect()
	select {
	case <-client.Done():
	case <-time.After(shutdownTimeout):
		logger.Log.Warn().Msg("Session did not close in time")
	}
	return runErr
}

// tokenNotice describes a missing or expired credential, or returns "".
func tokenNotice(tokens *auth.StoredTokenSource) string {
	stored, err := tokens.Token()
	if err != nil {
		return "no token stored, run with -token"
	}
	if auth.Expired(stored, time.Now(), 0) {
		return "stored token has expired"
	}
	return ""
}

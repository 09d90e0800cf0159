package main

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/app"
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/config"
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/feed"
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/store"
)

func main() {
	cfg := config.Load()

	st, err := store.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer st.Close()

	fd := feed.New(cfg.DatabaseURL)

	m := app.New(st, fd, app.Options{
		FeedChannel:  cfg.Channel,
		SessionLimit: cfg.SessionLimit,
		FeedLimit:    cfg.FeedLimit,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("run program: %v", err)
	}
}

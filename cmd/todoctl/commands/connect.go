package commands

import (
	"fmt"

	"github.com/benvon/todo-items/internal/config"
	"github.com/benvon/todo-items/internal/database"
	"github.com/benvon/todo-items/internal/logger"
	"go.uber.org/zap"
)

// session is the configuration, logger and store connection a command runs against
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	conn   *database.Connection
}

func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	zapLogger, err := logger.New(cfg.LogFormat, cfg.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	conn, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &session{cfg: cfg, logger: zapLogger, conn: conn}, nil
}

func (s *session) Close() {
	if err := s.conn.Close(); err != nil {
		s.logger.Warn("failed_to_close_database_connection", zap.Error(err))
	}
	_ = logger.Sync(s.logger)
}

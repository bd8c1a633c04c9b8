package websocket

import (
	"github.com/muhammedkh45/Echoo/pkg/logger"

	"go.uber.org/zap"
)

// WebSocketLogger provides structured logging for WebSocket events
type WebSocketLogger struct {
	logger *zap.Logger
}

func NewWebSocketLogger(l *logger.Logger) *WebSocketLogger {
	if l == nil {
		l = logger.NewNop()
	}
	return &WebSocketLogger{
		logger: l.Logger.With(zap.String("component", "websocket")),
	}
}

func (l *WebSocketLogger) Info(event, userID, clientID string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String("user_id", userID),
		zap.String("client_id", clientID),
	}, fields...)
	l.logger.Info("websocket_event", allFields...)
}

func (l *WebSocketLogger) Error(event, userID, clientID string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String("user_id", userID),
		zap.String("client_id", clientID),
		zap.Error(err),
	}, fields...)
	l.logger.Error("websocket_error", allFields...)
}

func (l *WebSocketLogger) Warn(event, userID, clientID string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String("user_id", userID),
		zap.String("client_id", clientID),
	}, fields...)
	l.logger.Warn("websocket_warning", allFields...)
}

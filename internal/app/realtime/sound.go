package realtime

import (
	"context"
	"encoding/base64"
	"os"

	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

// LoadSound reads the notification sound asset at process start and returns
// it base64-encoded for embedding in event messages. The sound is an
// enrichment: a missing or unreadable file disables it without affecting
// delivery.
func LoadSound(path string, logger *logger.Logger) string {
	if path == "" {
		return ""
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn(context.Background(), "sound_load_failed", "Notification sound unavailable, events will carry no audio", map[string]any{"path": path, "error": err.Error()})
		return ""
	}

	return base64.StdEncoding.EncodeToString(raw)
}

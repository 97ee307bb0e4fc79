// cmd/democlient/run.go
package democlient

import (
	"context"
	"fmt"

	"git.platform.alem.school/amibragim/order-up/internal/client"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

// Run connects a demo client to a running server and prints every order
// event it receives until ctx is cancelled.
func Run(ctx context.Context, url, role, userID string) error {
	logger := logger.NewLogger("demo-client")

	mgr := client.New(client.Config{
		URL:    url,
		Role:   role,
		UserID: userID,
	}, logger, func(ev client.Event) {
		fields := map[string]any{
			"event":   string(ev.Kind),
			"order":   ev.Order.ID,
			"display": ev.Order.DisplayNumber,
			"status":  ev.Order.Status,
		}
		if ev.Notification != nil {
			fields["title"] = ev.Notification.Title
			fields["message"] = ev.Notification.Message
		}
		logger.Info(ctx, "order_event", fmt.Sprintf("Order %s: %s", ev.Order.DisplayNumber, ev.Kind), fields)
	})

	logger.Info(ctx, "client_started",
		fmt.Sprintf("Connecting to %s as %s", url, role),
		map[string]any{"url": url, "role": role, "user_id": userID},
	)

	mgr.Connect(ctx)
	<-ctx.Done()
	mgr.Disconnect()

	logger.Info(context.Background(), "client_stopped",
		fmt.Sprintf("Disconnected; %d order(s) in local state", mgr.State().Len()), nil)
	return nil
}

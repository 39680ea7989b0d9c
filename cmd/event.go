package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect and exercise the expense event pipeline`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [created|updated|deleted]",
	Short:     "Publish a test expense event",
	Long:      `Publish a synthetic expense event through the configured sinks, including the AMQP exchange when enabled`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"created", "updated", "deleted"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var eventExpenseID int64

func testEvent(kind string) (events.Event, error) {
	switch kind {
	case "created":
		return events.NewExpenseCreatedEvent(eventExpenseID, "1970-01-01", 0, "test"), nil
	case "updated":
		return events.NewExpenseUpdatedEvent(eventExpenseID, []string{"note"}), nil
	case "deleted":
		return events.NewExpenseDeletedEvent(eventExpenseID), nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
}

func publishTestEvent(ctx context.Context, kind string) error {
	event, err := testEvent(kind)
	if err != nil {
		return err
	}

	deps, err := initializeDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	deps.Logger.Info("publishing test event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"handlers", deps.EventBus.HandlerCount(event.EventType()),
		"amqp", deps.Publisher != nil)

	if err := deps.EventBus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	deps.Logger.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventExpenseID, "expense-id", 0, "expense id carried by the event")

	eventCmd.AddCommand(publishEventCmd)
}

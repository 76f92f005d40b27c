package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Jasmitha1474/women-safety-app/internal/dispatch"
	"github.com/Jasmitha1474/women-safety-app/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var outcomesPhone string

// outcomesCmd groups the alert outcome stream commands
var outcomesCmd = &cobra.Command{
	Use:   "outcomes",
	Short: "Alert outcome stream",
}

var outcomesWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print alert outcomes as they are published (requires MQTT_ENABLED)",
	RunE:  runOutcomesWatch,
}

func init() {
	outcomesWatchCmd.Flags().StringVar(&outcomesPhone, "phone", "", "Only watch this phone (default: all)")
}

func runOutcomesWatch(cmd *cobra.Command, args []string) error {
	a, log, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	client := a.MQTT()
	if client == nil {
		return errors.New("outcome stream disabled: set MQTT_ENABLED=true")
	}

	phone := outcomesPhone
	if phone == "" {
		phone = "+"
	}
	topic := dispatch.OutcomeTopic(a.TopicPrefix(), phone)
	out := cmd.OutOrStdout()

	err = client.Subscribe(topic, 1, func(msgTopic string, payload []byte) error {
		var o models.AlertOutcome
		if err := json.Unmarshal(payload, &o); err != nil {
			return fmt.Errorf("failed to decode outcome: %w", err)
		}
		fmt.Fprintf(out, "%s %s %s %s\n", o.Timestamp.Format("2006-01-02T15:04:05Z07:00"), msgTopic, o.Status, o.ID)
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("Watching alert outcomes", zap.String("topic", topic))
	<-cmd.Context().Done()
	return nil
}

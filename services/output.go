package services

import (
	"log"

	"github.com/lupine-games/werewolf/models"
)

// OutputSink receives human-readable game notifications for external
// observers: console, audit log, or network broadcast. The engine never
// inspects what a sink does with them.
type OutputSink interface {
	Notify(message string, eventType models.OutputEventType, player *models.Player, metadata map[string]interface{})
}

// ConsoleSink logs every notification.
type ConsoleSink struct{}

func (ConsoleSink) Notify(message string, eventType models.OutputEventType, player *models.Player, metadata map[string]interface{}) {
	if player != nil {
		log.Printf("[%s] %s: %s", eventType, player.Name, message)
		return
	}
	log.Printf("[%s] %s", eventType, message)
}

// MultiSink fans notifications out to several sinks.
type MultiSink []OutputSink

func (m MultiSink) Notify(message string, eventType models.OutputEventType, player *models.Player, metadata map[string]interface{}) {
	for _, sink := range m {
		sink.Notify(message, eventType, player, metadata)
	}
}

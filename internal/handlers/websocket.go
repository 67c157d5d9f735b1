package handlers

import (
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/services"
)

const wsPingInterval = 30 * time.Second

// WebSocketUpgrade gates the websocket route to actual upgrade requests.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// GalleryWebSocket streams gallery mutation events to the client until it
// disconnects. The client is not expected to send anything; its read side
// only serves connection-close detection.
func GalleryWebSocket(bus *services.GalleryEventBus) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id, events := bus.Subscribe()
		defer bus.Unsubscribe(id)

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("⚠️  [WS] Failed to send %s event to %s: %v", event.Type, id, err)
					return
				}
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	})
}

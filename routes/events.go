package routes

import (
	"encoding/json"
	"net/http"
	"sync"

	"perfumeshop/middleware"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production
	},
}

// Connected admin clients map with mutex for thread safety
var wsClients = make(map[*websocket.Conn]bool)
var wsBroadcast = make(chan []byte, 100) // Buffered channel to prevent blocking
var wsMutex = &sync.Mutex{}
var hubOnce sync.Once

// startEventHub fans messages from wsBroadcast out to every connected
// client. Guarded so multiple fiber apps in one process share one hub.
func startEventHub() {
	hubOnce.Do(func() {
		go func() {
			for message := range wsBroadcast {
				wsMutex.Lock()
				for client := range wsClients {
					if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
						log.Warn().Err(err).Msg("websocket write failed, dropping client")
						client.Close()
						delete(wsClients, client)
					}
				}
				wsMutex.Unlock()
			}
		}()
	})
}

// adminEventsHandler upgrades the connection and keeps it registered until
// the client goes away. Incoming messages are ignored; the feed is one-way.
// The feed carries full orders, so only admins may connect; browsers cannot
// set headers on a websocket dial, so the token arrives as a query param and
// goes through the same allow-list lookup as the Bearer middleware.
func adminEventsHandler() fiber.Handler {
	upgrade := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		wsMutex.Lock()
		wsClients[conn] = true
		wsMutex.Unlock()
		log.Info().Str("addr", conn.RemoteAddr().String()).Msg("event feed client connected")

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Warn().Err(err).Msg("websocket read error")
				}
				wsMutex.Lock()
				delete(wsClients, conn)
				wsMutex.Unlock()
				log.Info().Str("addr", conn.RemoteAddr().String()).Msg("event feed client disconnected")
				break
			}
		}
	})

	return func(c *fiber.Ctx) error {
		user, _, err := middleware.ResolveToken(c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthenticated.",
			})
		}
		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return upgrade(c)
	}
}

// BroadcastOrderEvent pushes an order notification to connected admin
// dashboards. The send never blocks: with no listeners (or a full buffer)
// the event is dropped, order processing must not stall on the feed.
func BroadcastOrderEvent(event string, order models.Order) {
	payload, err := json.Marshal(fiber.Map{
		"event": event,
		"order": order,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal order event")
		return
	}
	select {
	case wsBroadcast <- payload:
	default:
		log.Warn().Str("event", event).Msg("event buffer full, dropping")
	}
}

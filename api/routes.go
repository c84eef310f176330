// Package api holds the HTTP routes of the server.
package api

import (
	"github.com/gofiber/fiber/v2"
)

const (
	// RootPath is the mount point of the API.
	RootPath = "/"

	// NotifyPath is where clients open the alert WebSocket.
	NotifyPath = "/ws"
)

// RegisterRoutes mounts the API on app. notify may be nil, then no
// WebSocket route is mounted.
func RegisterRoutes(app fiber.Router, notify fiber.Handler) {
	app.Get(RootPath, Home)
	if notify != nil {
		app.Get(NotifyPath, notify)
	}
}

// Package notify pushes alerts to real-time peers.
//
// Hub is the WebSocket connection layer mounted on the Fiber app. Every peer
// that connects is joined to the single room "default" and receives frames of
// the form
//
//	{"event": "default", "data": <payload>}
//
// Broadcaster is the handle the rest of the process uses. It must be started
// with an Emitter (the Hub, or a RedisRelay wrapping it) before SendAlert is
// called; an unstarted Broadcaster returns ErrNotInitialized. Delivery is
// fire-and-forget: there is no acknowledgement and slow peers are dropped.
package notify

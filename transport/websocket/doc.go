// Package websocket pushes round updates to browsers watching a session.
//
// A single Hub goroutine owns the client registry. Clients connect with
// ?session=<id> and receive JSON messages of the form
//
//	{"session_id": "ab12", "event": "guess", "round": {...}, "data": ...}
//
// where event is one of round_update, new_round, guess or solved. Incoming
// client messages are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastRound(sessionID, websocket.EventNewRound, round)
//
// A client whose send buffer is full is dropped rather than slowing the hub.
package websocket

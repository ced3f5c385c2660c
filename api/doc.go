// Package api provides the HTTP REST API for the game.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session, body {"config_id": "classic"}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Aggregate sessions (?configName= or ?sessionIds=a,b)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Rounds:
//   - GET /api/sessions/{id}/round - Current round, answer hidden until solved
//   - POST /api/sessions/{id}/round - Deal the next round, body {"reshuffle": true}
//   - POST /api/sessions/{id}/guess - Click a card, body {"index": 4}
//   - GET /api/sessions/{id}/replay - Traversal of a solved round
//
// Solving:
//   - POST /api/solve - Solve {"config": {...}} or {"config_id": "table", "seed": 7}
//
// Configuration:
//   - GET /api/configs - List board configs
//   - GET /api/configs/{name} - Get a board config
//   - POST /api/configs - Save a board config (JSON or, with a .yaml config_id, YAML)
//
// Other:
//   - GET /ws?session={id} - WebSocket round updates
//   - GET /healthz - Liveness
//
// Errors are returned as {"error": "..."}. Unknown sessions and configs map
// to 404, invalid guesses to 400, guesses on a solved round and replays of
// an unsolved one to 409, and boards that cannot be built or solved to 422.
package api

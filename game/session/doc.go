// Package session stores game sessions and their current round.
//
// Manager keeps sessions in memory keyed by a case-insensitive ID. Every
// session is created with a freshly dealt round, so a session always has a
// board to play. Sessions use 4-character hex IDs unless the caller picks one.
//
// With a SessionPersistence attached, the manager saves a session on
// creation, lazily loads unknown IDs on Get, and removes files on Delete.
// FilePersistence writes one JSON file per session holding the ring layout,
// the dice throw and the round counters. The answer is not stored; it is
// recomputed from the ring when the session is loaded.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", configs)
//	manager := session.NewManagerWithPersistence(persistence, logger)
//
//	sess, err := manager.Create("", "classic", boardConfig)
//	if err != nil {
//		return err
//	}
//	sess, err = manager.Get(sess.ID)
package session

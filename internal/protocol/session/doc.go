// Package session runs protocol lines over a byte stream: framing, decoding,
// encoding and handing results to a Handler.
//
// Ownership boundary:
// - line read/write with deadlines (Conn)
// - decode dispatch loop (Dispatch)
// - outgoing message queue (Outbox)
//
// Dialing, reconnects and rate limiting are the caller's job.
package session

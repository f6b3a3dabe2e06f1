// Package protocol owns the line codec: parsing a raw protocol line into a
// Message and serializing a Message back into the exact wire text.
//
// Ownership boundary:
// - message, verb and command vocabulary types
// - decode (bytes -> Message) and encode (Message -> text)
// - decode failure taxonomy
//
// Terminators are asymmetric: Decode tolerates a trailing "\r", "\n" or
// "\r\n" (any run of them), Encode never appends one. Line framing lives in
// the frame subpackage.
package protocol

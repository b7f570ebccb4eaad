// Package valuesync keeps a typed in-memory value mirrored into one slot of a
// durable storage area.
//
// # Lifecycle
//
// New reads the slot exactly once and turns the raw result into the initial
// value. Get returns the latest in-memory value without touching storage.
// Set replaces the in-memory value and then writes its serialized form back
// to the slot, every time, even when the value did not change.
//
// # Decoding
//
// There are two ways to decode the stored string:
//
//   - WithDefault (or no option at all, using the zero value of T): nothing
//     stored yields the default; stored data that cannot be decoded yields the
//     default as well, and the failure is only visible through Source.
//   - WithDeserializer: a caller function receives the raw string and whether
//     it was found. Its error is returned from New.
//
// The two are mutually exclusive. Values are JSON encoded by default; see
// WithCodec and WithSerializer for other formats.
//
// # Failed writes
//
// Set updates memory before it writes. When the write fails the error is
// returned and the in-memory value stays ahead of storage until the next
// successful Set.
//
// # Example
//
//	theme, err := valuesync.New(ctx, area, "theme", valuesync.WithDefault("light"))
//	if err != nil {
//		// handle error
//	}
//	_ = theme.Set(ctx, "dark") // stores "\"dark\""
package valuesync

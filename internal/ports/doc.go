// Package ports defines the interfaces that connect the filtering core to
// the messaging infrastructure.
//
// The node loop (internal/filter) depends only on these interfaces.
// Adapters (internal/adapters) implement them with concrete transports
// (UDP datagrams, replay directories, zerolog).
//
// # Port Interfaces
//
//   - [FrameSource]: delivers detection frames to the node
//   - [ObjectPublisher]: emits filtered detection frames
//   - [MarkerPublisher]: emits visualization marker sets
//
// This separation keeps the filtering logic independently testable without
// any live messaging runtime.
package ports

// Package domain holds the entities of the object filtering pipeline:
// detection frames, detected objects, and visualization markers.
//
// Entities here are plain values with no dependencies on transports or
// logging; adapters convert them to and from wire representations.
package domain

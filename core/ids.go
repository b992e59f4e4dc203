package core

// EntityID is the opaque, stable identifier for a record in the host
// entity/component store. It is strictly 32-bit, allowing for max 4 Billion
// live entities per world. The index never dereferences it.
type EntityID uint32

// MaxEntityID is the maximum possible value for an EntityID.
const MaxEntityID = ^EntityID(0)

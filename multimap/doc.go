// Package multimap provides the bidirectional unique multimap used as the
// storage primitive for secondary indexes: a forward map from key to value
// set plus a reverse map from value to its current key, kept mutually
// consistent at all times.
package multimap

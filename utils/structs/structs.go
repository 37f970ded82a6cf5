// Package structs implements generic containers of serializable objects.
package structs

// CopyNewer is implemented by objects that can return a deep copy of themselves.
type CopyNewer[V any] interface {
	CopyNew() V
}

// BinarySizer is implemented by objects that know their serialized size.
type BinarySizer interface {
	BinarySize() int
}

// Equatable is implemented by objects that can be compared for deep equality.
type Equatable[V any] interface {
	Equal(other V) bool
}

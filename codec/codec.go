// Package codec provides the serialization layer between caller value
// types and the byte payloads held by the backing store. JSON is the
// default in this system; stored payloads are a text encoding of the
// structured value, and a payload that fails to decode is treated by the
// facade as a cache miss.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

package codec

import "encoding/json"

// JSON is the default codec: payloads stay human-readable in the store,
// which matters when operators inspect cached listings by hand.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

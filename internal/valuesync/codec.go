package valuesync

import (
	"errors"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Codec converts values to and from their stored string form.
type Codec[T any] interface {
	Marshal(value T) (string, error)
	Unmarshal(data string) (T, error)
}

// JSONCodec stores values as JSON. Output matches what a browser's
// JSON.stringify produces for the same data: no HTML escaping and no
// trailing newline.
type JSONCodec[T any] struct {
	// Strict rejects objects carrying fields T does not declare.
	Strict bool
}

func (JSONCodec[T]) Marshal(value T) (string, error) {
	b, err := json.MarshalNoEscape(value)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c JSONCodec[T]) Unmarshal(data string) (T, error) {
	var value T
	if !c.Strict {
		err := json.Unmarshal([]byte(data), &value)
		return value, err
	}

	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&value); err != nil {
		return value, err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return value, errors.New("valuesync: unexpected data after JSON value")
	}
	return value, nil
}

// StringCodec stores strings verbatim, without JSON quoting.
type StringCodec struct{}

func (StringCodec) Marshal(value string) (string, error) {
	return value, nil
}

func (StringCodec) Unmarshal(data string) (string, error) {
	return data, nil
}

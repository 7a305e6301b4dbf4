package event

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hpungsan/hookline/internal/errors"
)

// MaxPayloadBytes caps how much of stdin a hook will read.
const MaxPayloadBytes = 1 << 20

// DecodeToolEvent reads one ToolEvent from r.
// Malformed JSON and an empty stream both yield an INVALID_EVENT error.
func DecodeToolEvent(r io.Reader) (ToolEvent, error) {
	return decode[ToolEvent](r)
}

// DecodeStatusInput reads one StatusInput from r.
func DecodeStatusInput(r io.Reader) (StatusInput, error) {
	return decode[StatusInput](r)
}

// decode unmarshals exactly one JSON value from a size-limited reader.
// Anything but whitespace after that value makes the payload invalid.
func decode[T any](r io.Reader) (T, error) {
	var result, zero T
	if r == nil {
		return zero, errors.NewInvalidEvent(io.EOF)
	}
	dec := json.NewDecoder(io.LimitReader(r, MaxPayloadBytes))
	if err := dec.Decode(&result); err != nil {
		return zero, errors.NewInvalidEvent(err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return zero, errors.NewInvalidEvent(fmt.Errorf("unexpected data after JSON payload"))
	}
	return result, nil
}

// Package state holds the wire shape of the public game state served at /state.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotObject    = errors.New("expected JSON object")
	ErrTrailingData = errors.New("trailing data after JSON document")
)

type PlayerInfo struct {
	Score float64  `json:"score"`
	Roles []string `json:"roles"`
}

// GameState is the subset of the server state the dashboard renders.
type GameState struct {
	Players Entries[PlayerInfo] `json:"players"`
	Logs    []string            `json:"logs"`
}

// Decode reads one GameState document from r. Anything after it other than whitespace
// is an error.
func Decode(r io.Reader) (GameState, error) {
	var st GameState
	dec := json.NewDecoder(r)
	if err := dec.Decode(&st); err != nil {
		return GameState{}, fmt.Errorf("decode state: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return GameState{}, fmt.Errorf("decode state: %w", ErrTrailingData)
	}
	return st, nil
}

type Entry[T any] struct {
	Name  string
	Value T
}

// Entries is a JSON object decoded into a slice so the document's key order survives.
// A repeated key keeps its first position and takes the last value.
type Entries[T any] []Entry[T]

func (e Entries[T]) Get(name string) (T, bool) {
	for _, entry := range e {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	var zero T
	return zero, false
}

func (e Entries[T]) Names() []string {
	names := make([]string, 0, len(e))
	for _, entry := range e {
		names = append(names, entry.Name)
	}
	return names
}

func (e Entries[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *Entries[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*e = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}
	out := make(Entries[T], 0)
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return ErrNotObject
		}
		var value T
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("entry %q: %w", key, err)
		}
		if i, seen := index[key]; seen {
			out[i].Value = value
			continue
		}
		index[key] = len(out)
		out = append(out, Entry[T]{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*e = out
	return nil
}

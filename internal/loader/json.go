// Package loader reads order datasets into the in-memory model.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
)

// Element is one decoded array element and its position in the array.
type Element[T any] struct {
	Index int
	Value T
}

// DecodeJSONArray decodes a top-level JSON array element by element.
// Expects input in the form [{...},{...}]; empty input yields no elements.
// Both channels are closed when processing completes.
func DecodeJSONArray[T any](ctx context.Context, r io.Reader) (<-chan Element[T], <-chan error) {
	outCh := make(chan Element[T], 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)

		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			errCh <- eris.Wrap(err, "json: read opening token")
			return
		}

		delim, ok := tok.(json.Delim)
		if !ok || delim != '[' {
			errCh <- eris.Errorf("json: expected '[', got %v", tok)
			return
		}

		for idx := 0; decoder.More(); idx++ {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}

			var item T
			if err := decoder.Decode(&item); err != nil {
				errCh <- &decodeError{index: idx, err: err}
				return
			}

			select {
			case outCh <- Element[T]{Index: idx, Value: item}:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}
		}

		if _, err := decoder.Token(); err != nil {
			errCh <- eris.Wrap(err, "json: read closing token")
			return
		}

		// Only whitespace may follow the closing bracket.
		if tok, err := decoder.Token(); err != io.EOF {
			if err != nil {
				errCh <- eris.Wrap(err, "json: content after closing ']'")
				return
			}
			errCh <- eris.Errorf("json: unexpected %v after closing ']'", tok)
		}
	}()

	return outCh, errCh
}

// decodeError carries the array position of an element that failed to decode.
type decodeError struct {
	index int
	err   error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("json: decode element %d: %v", e.index, e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}

// Package orchestration runs batches of calls concurrently and summarises
// their outcome.
package orchestration

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/dispatch"
	"github.com/agbru/detmath/pkg/models"
)

// Call is a batch entry ready to execute. Err is set when the entry could
// not be encoded; such a call is reported as failed without running.
type Call struct {
	Label    string
	Calldata []byte
	Expect   []byte
	Err      error
}

// LoadBatch decodes a JSON array of models.BatchCall.
func LoadBatch(r io.Reader) ([]models.BatchCall, error) {
	var calls []models.BatchCall
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&calls); err != nil {
		return nil, fmt.Errorf("decoding batch: %w", err)
	}
	return calls, nil
}

// LoadBatchFile reads a batch file from disk.
func LoadBatchFile(path string) ([]models.BatchCall, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening batch file: %w", err)
	}
	defer f.Close()
	return LoadBatch(f)
}

// Prepare encodes every entry. Entries name either an operation with
// arguments or raw call data; an optional expectation is hex.
func Prepare(entries []models.BatchCall) []Call {
	calls := make([]Call, len(entries))
	for i, e := range entries {
		calls[i] = prepareOne(i, e)
	}
	return calls
}

func prepareOne(i int, e models.BatchCall) Call {
	c := Call{Label: fmt.Sprintf("#%d", i+1)}
	switch {
	case e.Calldata != "" && e.Op != "":
		c.Err = errors.New("entry sets both op and calldata")
		return c
	case e.Calldata != "":
		cd, err := abi.DecodeHex(e.Calldata)
		if err != nil {
			c.Err = fmt.Errorf("calldata: %w", err)
			return c
		}
		c.Calldata = cd
		c.Label += " " + dispatch.Selector(abi.Calldata(cd).Selector()).String()
	case e.Op != "":
		cd, err := dispatch.EncodeCall(e.Op, e.Args)
		c.Label += " " + e.Op
		if err != nil {
			c.Err = err
			return c
		}
		c.Calldata = cd
	default:
		c.Err = errors.New("entry has neither op nor calldata")
		return c
	}
	if e.Expect != "" {
		want, err := abi.DecodeHex(e.Expect)
		if err != nil {
			c.Err = fmt.Errorf("expect: %w", err)
			return c
		}
		c.Expect = want
	}
	return c
}

// Package pipeline composes the batch transform: parse the input array,
// normalize every element, sort, and encode.
//
// A hard failure in any element aborts the whole batch; no partial result is
// ever returned.
package pipeline

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"carnorm/internal/car"
	"carnorm/internal/errors"
	"carnorm/internal/export"
	"carnorm/internal/output"
)

// Parse decodes input into raw records. The input must be exactly one JSON
// array whose elements are all objects.
func Parse(input []byte) ([]car.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.NewInvalidDocument("input is empty", nil)
		}
		return nil, errors.NewInvalidDocument("input is not valid JSON", err)
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, errors.NewInvalidDocument("unexpected data after the top-level value", err)
		}
		return nil, errors.NewInvalidDocument(fmt.Sprintf("unexpected data after the top-level value: %v", tok), nil)
	}

	elements, ok := doc.([]interface{})
	if !ok {
		return nil, errors.NewInvalidDocument(fmt.Sprintf("top-level value is %s, not an array", kindOf(doc)), nil)
	}

	raws := make([]car.RawRecord, len(elements))
	for i, el := range elements {
		obj, ok := el.(map[string]interface{})
		if !ok {
			return nil, errors.NewInvalidDocument(fmt.Sprintf("element is %s, not an object", kindOf(el)), nil).AtRecord(i)
		}
		raws[i] = car.RawRecord(obj)
	}
	return raws, nil
}

// NormalizeRecords normalizes each raw record in order. The first failure is
// returned annotated with the offending record's index.
func NormalizeRecords(raws []car.RawRecord) ([]car.Record, error) {
	records := make([]car.Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := car.Normalize(raw)
		if err != nil {
			var carErr *errors.CarError
			if stderrors.As(err, &carErr) {
				return nil, carErr.AtRecord(i)
			}
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// NormalizeAll parses input and normalizes every element. The result is in
// input order.
func NormalizeAll(input []byte) ([]car.Record, error) {
	raws, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return NormalizeRecords(raws)
}

// Sort orders records in place by model year, horsepower and name.
func Sort(records []car.Record) {
	car.Sort(records)
}

// ToCanonicalJSON encodes records as canonical JSON text.
func ToCanonicalJSON(records []car.Record) (string, error) {
	data, err := output.EncodeRecords(records)
	if err != nil {
		return "", errors.NewCarError(errors.InternalError, "failed to encode records", err)
	}
	return string(data), nil
}

// Process normalizes and sorts input without encoding it.
func Process(input []byte) ([]car.Record, error) {
	records, err := NormalizeAll(input)
	if err != nil {
		return nil, err
	}
	Sort(records)
	return records, nil
}

// Run is the single entry point of the transform: parse, normalize, sort and
// encode as canonical JSON.
func Run(input string) (string, error) {
	records, err := Process([]byte(input))
	if err != nil {
		return "", err
	}
	return ToCanonicalJSON(records)
}

// RunWith is Run with a selectable output format.
func RunWith(input []byte, opts export.Options) ([]byte, error) {
	records, err := Process(input)
	if err != nil {
		return nil, err
	}
	return Export(records, opts)
}

// Export renders already sorted records. Encoder failures that are not
// CarErrors are reported as InternalError.
func Export(records []car.Record, opts export.Options) ([]byte, error) {
	data, err := export.Encode(records, opts)
	if err != nil {
		var carErr *errors.CarError
		if stderrors.As(err, &carErr) {
			return nil, err
		}
		return nil, errors.NewCarError(errors.InternalError, "failed to encode records", err)
	}
	return data, nil
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	case string:
		return "a string"
	case []interface{}:
		return "an array"
	case map[string]interface{}:
		return "an object"
	}
	return fmt.Sprintf("%T", v)
}

// Package sheets talks to spreadsheet-backed web apps that publish the
// store's hours and menu and collect submitted orders.
package sheets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var jsonpRe = regexp.MustCompile(`^\s*([a-zA-Z0-9_$.]+)\s*\(([\s\S]*)\)\s*;?\s*$`)

var ErrUnexpectedShape = errors.New("unexpected sheet payload")

// DecodeRows parses a sheet payload into rows keyed by header.
//
// The payload may be an array of objects or an array of arrays whose first
// element is the header row, optionally wrapped in a JSONP callback.
// Numbers are kept as json.Number.
func DecodeRows(body []byte) ([]map[string]any, error) {
	body = bytes.TrimSpace(body)
	if m := jsonpRe.FindSubmatch(body); m != nil && len(bytes.TrimSpace(m[2])) > 0 {
		body = m[2]
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("DecodeRows: %w: %w", ErrUnexpectedShape, err)
	}
	if len(raw) == 0 {
		return []map[string]any{}, nil
	}

	if header, ok := raw[0].([]any); ok {
		return zipRows(header, raw[1:])
	}

	rows := make([]map[string]any, 0, len(raw))
	for i, r := range raw {
		obj, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("DecodeRows: row %d is %T: %w", i, r, ErrUnexpectedShape)
		}
		rows = append(rows, obj)
	}
	return rows, nil
}

func zipRows(header []any, data []any) ([]map[string]any, error) {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(fmt.Sprint(h))
	}

	rows := make([]map[string]any, 0, len(data))
	for i, r := range data {
		cells, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("DecodeRows: row %d is %T: %w", i+1, r, ErrUnexpectedShape)
		}
		row := make(map[string]any, len(names))
		for j, name := range names {
			if name == "" || j >= len(cells) {
				continue
			}
			row[name] = cells[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

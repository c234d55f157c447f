package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The Quiz API is loose about scalar shapes: identifiers come as numbers or
// strings, durations as Django text or seconds, decimals as strings. These
// wire types absorb that before the payload is mapped onto entities.

type wireID ID

func (w *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return errors.New("empty identifier")
		}
		*w = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier: %w", err)
	}
	*w = wireID(n.String())
	return nil
}

type wireDuration int

func (w *wireDuration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		secs, err := ParseDuration(s)
		if err != nil {
			return err
		}
		*w = wireDuration(secs)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	secs, err := wholeSeconds(f)
	if err != nil {
		return err
	}
	*w = wireDuration(secs)
	return nil
}

type wireDecimal float64

func (w *wireDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("decimal: %w", err)
		}
		*w = wireDecimal(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*w = wireDecimal(f)
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

type wireTime time.Time

func (w *wireTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time: %w", err)
	}
	t, err := ParseTime(s)
	if err != nil {
		return err
	}
	*w = wireTime(t)
	return nil
}

// ParseTime accepts the date-time shapes produced by the Quiz API and by
// datetime-local form inputs.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("time: unrecognized format %q", s)
}

func (w *wireTime) ptr() *time.Time {
	if w == nil {
		return nil
	}
	t := time.Time(*w)
	return &t
}

func (w *wireID) ptr() *ID {
	if w == nil {
		return nil
	}
	id := ID(*w)
	return &id
}

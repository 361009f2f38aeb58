package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Entry is one parsed log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  []Field
	Raw     string
}

// Field is a key/value pair carried by an entry besides the standard ones.
type Field struct {
	Key   string
	Value string
}

// Structured reports whether the line parsed as a JSON event.
func (e Entry) Structured() bool {
	return e.Raw == ""
}

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, idx := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// ReadEntries reads the tail of path and parses each line.
func ReadEntries(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

// Parse decodes a zerolog JSON line. Lines that are not JSON objects come
// back with Raw set and Message holding the whole line.
func Parse(line string) Entry {
	var obj map[string]any
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		return Entry{Message: line, Raw: line}
	}

	var e Entry
	if v, ok := obj[zerolog.TimestampFieldName].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			e.Time = ts
		}
	}
	if v, ok := obj[zerolog.LevelFieldName].(string); ok {
		e.Level = v
	}
	if v, ok := obj[zerolog.MessageFieldName].(string); ok {
		e.Message = v
	}
	if v, ok := obj[zerolog.ErrorFieldName].(string); ok && e.Message == "" {
		e.Message = v
	}

	for key, val := range obj {
		switch key {
		case zerolog.TimestampFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName, "app":
			continue
		}
		e.Fields = append(e.Fields, Field{Key: key, Value: formatValue(val)})
	}
	sort.Slice(e.Fields, func(i, j int) bool { return e.Fields[i].Key < e.Fields[j].Key })
	return e
}

// FilterLevel keeps entries at or above min. Unstructured lines are kept.
func FilterLevel(entries []Entry, min zerolog.Level) []Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if !e.Structured() {
			out = append(out, e)
			continue
		}
		lvl, err := zerolog.ParseLevel(e.Level)
		if err != nil || lvl >= min {
			out = append(out, e)
		}
	}
	return out
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	case float64:
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

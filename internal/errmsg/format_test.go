package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlayStation,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpPlayStation,
			err:      errors.New("connection refused"),
			expected: "Failed to play station: connection refused",
		},
		{
			name:     "station add operation",
			op:       OpStationAdd,
			err:      errors.New("station already exists"),
			expected: "Failed to add station: station already exists",
		},
		{
			name:     "next station operation",
			op:       OpNextStation,
			err:      errors.New("no stations"),
			expected: "Failed to switch to the next station: no stations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlayStation,
			context:  "http://stream.example/jazz",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       Op("stream"),
			context:  "http://stream.example/jazz",
			err:      errors.New("connection reset"),
			expected: "Failed to stream 'http://stream.example/jazz': connection reset",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpPlayStation,
			context:  "",
			err:      errors.New("connection refused"),
			expected: "Failed to play station: connection refused",
		},
		{
			name:     "remove with station name context",
			op:       OpStationRemove,
			context:  "Radio Paradise",
			err:      errors.New("not found"),
			expected: "Failed to remove station 'Radio Paradise': not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

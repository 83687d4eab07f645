package types

import (
	"errors"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain bytes", input: "1024", want: 1024},
		{name: "zero bytes", input: "0", want: 0},
		{name: "bytes with B suffix", input: "512B", want: 512},
		{name: "kilobytes", input: "100K", want: 100 * KiB},
		{name: "kilobytes lowercase", input: "100k", want: 100 * KiB},
		{name: "kilobytes with KB", input: "100KB", want: 100 * KiB},
		{name: "megabytes", input: "50M", want: 50 * MiB},
		{name: "megabytes with MiB", input: "50MiB", want: 50 * MiB},
		{name: "gigabytes", input: "2G", want: 2 * GiB},
		{name: "terabytes", input: "1T", want: TiB},
		{name: "decimal truncated", input: "1.5G", want: 1610612736},
		{name: "surrounding whitespace", input: "  100M  ", want: 100 * MiB},

		{name: "empty string", input: "", wantErr: true},
		{name: "only whitespace", input: "   ", wantErr: true},
		{name: "invalid suffix", input: "100X", wantErr: true},
		{name: "letters only", input: "abc", wantErr: true},
		{name: "suffix only", input: "M", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSizeNegative(t *testing.T) {
	_, err := ParseSize("-100M")
	if !errors.Is(err, ErrNegativeSize) {
		t.Errorf("ParseSize(-100M) error = %v, want ErrNegativeSize", err)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536 * 1024, "1.5 MiB"},
		{2 * GiB, "2.0 GiB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestWalkErrorUnwrap(t *testing.T) {
	inner := errors.New("permission denied")
	we := WalkError{Path: "/restricted", Err: inner}

	if !errors.Is(we, inner) {
		t.Error("WalkError does not unwrap to the inner error")
	}
	if we.Error() == "" {
		t.Error("WalkError.Error() is empty")
	}
}

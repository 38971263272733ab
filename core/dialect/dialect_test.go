package dialect

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

func TestWriter_Write(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		records [][]string
		want    string
	}{
		{
			name:    "plain rows with CRLF",
			dialect: Default(),
			records: [][]string{{"id", "name"}, {"1", "Alice"}, {"2", "Bob"}},
			want:    "id,name\r\n1,Alice\r\n2,Bob\r\n",
		},
		{
			name:    "field with delimiter is quoted",
			dialect: Default(),
			records: [][]string{{"1", "Smith, Jr."}},
			want:    "1,\"Smith, Jr.\"\r\n",
		},
		{
			name:    "embedded quotes are doubled",
			dialect: Default(),
			records: [][]string{{`say "hi"`}},
			want:    "\"say \"\"hi\"\"\"\r\n",
		},
		{
			name:    "newline forces quoting",
			dialect: Default(),
			records: [][]string{{"a", "line1\nline2"}},
			want:    "a,\"line1\nline2\"\r\n",
		},
		{
			name:    "empty fields stay unquoted",
			dialect: Default(),
			records: [][]string{{"1", "", "x"}},
			want:    "1,,x\r\n",
		},
		{
			name:    "single empty field is quoted",
			dialect: Default(),
			records: [][]string{{""}},
			want:    "\"\"\r\n",
		},
		{
			name:    "leading space is not quoted",
			dialect: Default(),
			records: [][]string{{" padded"}},
			want:    " padded\r\n",
		},
		{
			name:    "custom delimiter quote and terminator",
			dialect: Dialect{Delimiter: ';', Quote: '\'', LineTerminator: "\n"},
			records: [][]string{{"a;b", "it's", "c,d"}},
			want:    "'a;b';'it''s';c,d\n",
		},
		{
			name:    "tab delimiter",
			dialect: Dialect{Delimiter: '\t', Quote: '"', LineTerminator: "\n"},
			records: [][]string{{"a b", "c\td"}},
			want:    "a b\t\"c\td\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, tt.dialect)
			writeRecords(t, w, tt.records)
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriter_ReadBack(t *testing.T) {
	records := [][]string{
		{"id", "note"},
		{"1", "Smith, Jr."},
		{"2", `quoted "word"`},
		{"3", "multi\r\nline"},
		{"4", ""},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, Default())
	writeRecords(t, w, records)

	got, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("csv read back failed: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("read %d records, want %d", len(got), len(records))
	}
	for i := range records {
		for j := range records[i] {
			want := strings.ReplaceAll(records[i][j], "\r\n", "\n")
			if got[i][j] != want {
				t.Errorf("record %d field %d = %q, want %q", i, j, got[i][j], want)
			}
		}
	}
}

func TestDialect_Validate(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		wantErr bool
	}{
		{"default", Default(), false},
		{"semicolon lf", Dialect{';', '"', "\n"}, false},
		{"same delimiter and quote", Dialect{'"', '"', "\r\n"}, true},
		{"newline delimiter", Dialect{'\n', '"', "\r\n"}, true},
		{"zero quote", Dialect{',', 0, "\r\n"}, true},
		{"bad terminator", Dialect{',', '"', "\r"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dialect.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLineTerminator(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"crlf", "\r\n", false},
		{"CRLF", "\r\n", false},
		{"", "\r\n", false},
		{"lf", "\n", false},
		{`\n`, "\n", false},
		{"\n", "\n", false},
		{"cr", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLineTerminator(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLineTerminator(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLineTerminator(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func writeRecords(t *testing.T, w *Writer, records [][]string) {
	t.Helper()
	for _, record := range records {
		if err := w.Write(record); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

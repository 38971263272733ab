package validation

import "testing"

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"simple", "users", false},
		{"with spaces", "order items", false},
		{"reserved word", "select", false},
		{"unicode", "clientes_ação", false},
		{"embedded quote", `we"ird`, false},
		{"dots inside", "v1.archive", false},
		{"leading dot", ".hidden", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"slash", "../etc/passwd", true},
		{"nested", "a/b", true},
		{"backslash", `..\windows`, true},
		{"nul byte", "a\x00b", true},
		{"newline", "a\nb", true},
		{"tab", "a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.table)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTableName(%q) error = %v, wantErr %v", tt.table, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTableNames(t *testing.T) {
	if err := ValidateTableNames([]string{"users", "orders"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateTableNames([]string{"users", "../x", "orders"}); err == nil {
		t.Error("expected error for unsafe name")
	}
	if err := ValidateTableNames(nil); err != nil {
		t.Errorf("empty list should be valid, got %v", err)
	}
}

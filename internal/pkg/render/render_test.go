package render

import (
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		values  map[string]string
		want    string
		wantErr bool
	}{
		{
			name:   "all placeholders supplied",
			body:   "Dear {{name}}, welcome to {{course}}.",
			values: map[string]string{"name": "Maria", "course": "Letras"},
			want:   "Dear Maria, welcome to Letras.",
		},
		{
			name:    "missing placeholder fails",
			body:    "Dear {{name}}",
			values:  map[string]string{},
			wantErr: true,
		},
		{
			name:   "no placeholders",
			body:   "static body",
			values: nil,
			want:   "static body",
		},
		{
			name:   "repeated placeholder",
			body:   "{{year}}/{{semester}} and again {{year}}",
			values: map[string]string{"year": "2025", "semester": "1"},
			want:   "2025/1 and again 2025",
		},
		{
			name:   "whitespace inside tags",
			body:   "Dear {{ name }}",
			values: map[string]string{"name": "Jo"},
			want:   "Dear Jo",
		},
		{
			name:   "empty value is a supplied value",
			body:   "[{{rg}}]",
			values: map[string]string{"rg": ""},
			want:   "[]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Execute(tt.body, tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Execute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecuteMissingTokenNamesToken(t *testing.T) {
	_, err := Execute("Contrato de {{name}} para {{course}}", map[string]string{"name": "Ana"})
	if err == nil {
		t.Fatal("expected error for missing placeholder")
	}
	if !strings.Contains(err.Error(), "course") {
		t.Errorf("error %q does not name the missing token", err)
	}
}

func TestTokens(t *testing.T) {
	tokens, err := Tokens("{{a}} {{b}} {{ a }}")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 || tokens[0] != "a" || tokens[1] != "b" {
		t.Errorf("Tokens() = %v, want [a b]", tokens)
	}
}

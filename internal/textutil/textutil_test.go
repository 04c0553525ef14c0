package textutil

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"user_name", []string{"user_name"}},
		{"email@example.com", []string{"email", "example", "com"}},
		{"", nil},
		{"  spaces  ", []string{"spaces"}},
		{"café résumé", []string{"café", "résumé"}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNgrams(t *testing.T) {
	tests := []struct {
		s    string
		min  int
		max  int
		want []string
	}{
		{"abc", 2, 3, []string{"ab", "bc", "abc"}},
		{"ab", 3, 5, nil},
		{"hello", 5, 5, []string{"hello"}},
		{"", 1, 3, nil},
	}
	for _, tt := range tests {
		got := Ngrams(tt.s, tt.min, tt.max)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Ngrams(%q, %d, %d) = %v, want %v", tt.s, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Endereço", "endereco"},
		{"CPF do Titular", "cpf do titular"},
		{"razão_social", "razao social"},
		{"obs-campo", "obs campo"},
		{"nome*completo", "nome completo"},
		{"a/b\\c|d.e", "a b c d e"},
		{"  multiple   spaces  ", "multiple spaces"},
		{"line\nbreak\rhere", "line break here"},
		{"", ""},
		{"ção São João", "cao sao joao"},
	}
	for _, tt := range tests {
		got := Normalize(tt.input)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Endereço de E-mail", "CPF/CNPJ", "data_de_nascimento", "já normalizado"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text string
		word string
		want bool
	}{
		{"cpf do titular", "cpf", true},
		{"observar algo", "obs", false},
		{"obs campo", "obs", true},
		{"meu cpfcnpj", "cpf", false},
		{"rg", "rg", true},
		{"digite o rg aqui", "rg", true},
		{"orgao emissor", "rg", false},
		{"", "cpf", false},
		{"cpf", "", false},
		{"tel 11", "tel", true},
		{"hotel fazenda", "tel", false},
	}
	for _, tt := range tests {
		got := ContainsWord(tt.text, tt.word)
		if got != tt.want {
			t.Errorf("ContainsWord(%q, %q) = %v, want %v", tt.text, tt.word, got, tt.want)
		}
	}
}

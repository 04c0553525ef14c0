package generator

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/happyhackingspace/campo/classifier"
)

var onlyDigits = regexp.MustCompile(`\D`)

func digitsOf(s string) []int {
	clean := onlyDigits.ReplaceAllString(s, "")
	out := make([]int, len(clean))
	for i, r := range clean {
		d, _ := strconv.Atoi(string(r))
		out[i] = d
	}
	return out
}

func TestCPFCheckDigits(t *testing.T) {
	g := NewSeeded(42)
	for i := 0; i < 50; i++ {
		cpf := g.CPF()
		d := digitsOf(cpf)
		if len(d) != 11 {
			t.Fatalf("CPF %q has %d digits", cpf, len(d))
		}
		if got := cpfCheckDigit(d[:9], 10); got != d[9] {
			t.Errorf("CPF %q: first check digit = %d, want %d", cpf, d[9], got)
		}
		if got := cpfCheckDigit(d[:10], 11); got != d[10] {
			t.Errorf("CPF %q: second check digit = %d, want %d", cpf, d[10], got)
		}
	}
}

func TestCPFKnownVector(t *testing.T) {
	// 111.444.777-35 is the canonical worked example of the algorithm.
	d := []int{1, 1, 1, 4, 4, 4, 7, 7, 7}
	if got := cpfCheckDigit(d, 10); got != 3 {
		t.Errorf("first check digit = %d, want 3", got)
	}
	if got := cpfCheckDigit(append(d, 3), 11); got != 5 {
		t.Errorf("second check digit = %d, want 5", got)
	}
}

func TestCNPJCheckDigits(t *testing.T) {
	g := NewSeeded(7)
	for i := 0; i < 50; i++ {
		cnpj := g.CNPJ()
		d := digitsOf(cnpj)
		if len(d) != 14 {
			t.Fatalf("CNPJ %q has %d digits", cnpj, len(d))
		}
		if got := cnpjCheckDigit(d[:12]); got != d[12] {
			t.Errorf("CNPJ %q: first check digit = %d, want %d", cnpj, d[12], got)
		}
		if got := cnpjCheckDigit(d[:13]); got != d[13] {
			t.Errorf("CNPJ %q: second check digit = %d, want %d", cnpj, d[13], got)
		}
	}
}

func TestFormats(t *testing.T) {
	g := NewSeeded(1)
	tests := []struct {
		name    string
		value   string
		pattern string
	}{
		{"cpf", g.CPF(), `^\d{3}\.\d{3}\.\d{3}-\d{2}$`},
		{"cnpj", g.CNPJ(), `^\d{2}\.\d{3}\.\d{3}/0001-\d{2}$`},
		{"cep", g.CEP(), `^\d{5}-\d{3}$`},
		{"phone", g.Phone(), `^\(\d{2}\) 9\d{4}-\d{4}$`},
		{"rg", g.RG(), `^\d{2}\.\d{3}\.\d{3}-\d$`},
		{"birth date", g.BirthDate(), `^\d{2}/\d{2}/\d{4}$`},
		{"email", g.Email(), `^[a-z]+\.[a-z]+\d+@[a-z.]+$`},
		{"website", g.Website(), `^https://www\.[a-z]+\d+\.com\.br$`},
	}
	for _, tt := range tests {
		if !regexp.MustCompile(tt.pattern).MatchString(tt.value) {
			t.Errorf("%s %q does not match %s", tt.name, tt.value, tt.pattern)
		}
	}
}

func TestGenerateCoversAllTypes(t *testing.T) {
	g := NewSeeded(3)
	for _, ft := range classifier.AllFieldTypes {
		if v := g.Generate(ft); v == "" {
			t.Errorf("Generate(%s) returned empty value", ft)
		}
	}
	if v := g.Generate(classifier.FieldUnknown); v == "" {
		t.Error("Generate(unknown) returned empty value")
	}
}

func TestSeededReproducible(t *testing.T) {
	a, b := NewSeeded(99), NewSeeded(99)
	for i := 0; i < 10; i++ {
		if av, bv := a.CPF(), b.CPF(); av != bv {
			t.Fatalf("seeded generators diverged: %q vs %q", av, bv)
		}
	}
}

func TestPasswordCharacterClasses(t *testing.T) {
	g := NewSeeded(5)
	pw := g.Password()
	if len(pw) != 12 {
		t.Fatalf("password length = %d", len(pw))
	}
	if !strings.ContainsAny(pw, "23456789") {
		t.Errorf("password %q has no digit", pw)
	}
	if strings.ToLower(pw) == pw || strings.ToUpper(pw) == pw {
		t.Errorf("password %q lacks mixed case", pw)
	}
}

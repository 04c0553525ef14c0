package oracleai

import "testing"

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		conf    float64
	}{
		{
			"plain json",
			`{"fieldType": "cpf", "confidence": 0.95, "generatorType": "cpf"}`,
			"cpf", 0.95,
		},
		{
			"fenced json",
			"```json\n{\"fieldType\": \"email\", \"confidence\": 0.8, \"generatorType\": \"email\"}\n```",
			"email", 0.8,
		},
		{
			"bare fence",
			"```\n{\"fieldType\": \"phone\", \"confidence\": 0.7}\n```",
			"phone", 0.7,
		},
		{
			"surrounding whitespace",
			"  {\"fieldType\": \"cep\", \"confidence\": 1}  ",
			"cep", 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVerdict(tt.content)
			if err != nil {
				t.Fatalf("ParseVerdict: %v", err)
			}
			if v.FieldType != tt.want || v.Confidence != tt.conf {
				t.Errorf("verdict = %+v, want {%s %v}", v, tt.want, tt.conf)
			}
		})
	}
}

func TestParseVerdictMalformed(t *testing.T) {
	for _, content := range []string{"", "not json", "```\n```"} {
		if _, err := ParseVerdict(content); err == nil {
			t.Errorf("ParseVerdict(%q): want error", content)
		}
	}
}

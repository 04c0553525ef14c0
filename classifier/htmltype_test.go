package classifier

import "testing"

func TestHTMLTypeDetect(t *testing.T) {
	tests := []struct {
		tag        string
		nativeType string
		want       FieldType
	}{
		{"input", "checkbox", FieldCheckbox},
		{"input", "radio", FieldRadio},
		{"input", "email", FieldEmail},
		{"input", "tel", FieldPhone},
		{"input", "password", FieldPassword},
		{"input", "number", FieldNumber},
		{"input", "date", FieldDate},
		{"input", "time", FieldDate},
		{"input", "datetime-local", FieldDate},
		{"input", "month", FieldDate},
		{"input", "week", FieldDate},
		{"input", "url", FieldWebsite},
		{"input", "search", FieldText},
		{"input", "range", FieldNumber},
	}
	c := HTMLType{}
	for _, tt := range tests {
		f := &FormField{Tag: tt.tag, NativeType: tt.nativeType}
		r := c.Detect(f)
		if r == nil {
			t.Errorf("Detect(%s/%s) = nil, want %s", tt.tag, tt.nativeType, tt.want)
			continue
		}
		if r.Type != tt.want || r.Confidence != 1.0 {
			t.Errorf("Detect(%s/%s) = {%s, %v}, want {%s, 1.0}", tt.tag, tt.nativeType, r.Type, r.Confidence, tt.want)
		}
	}
}

func TestHTMLTypeDeterminism(t *testing.T) {
	c := HTMLType{}
	f := &FormField{Tag: "input", NativeType: "email"}
	first := c.Detect(f)
	for i := 0; i < 10; i++ {
		r := c.Detect(f)
		if r == nil || r.Type != first.Type || r.Confidence != first.Confidence {
			t.Fatalf("Detect not deterministic on call %d: %+v vs %+v", i, r, first)
		}
	}
}

func TestHTMLTypeAmbiguousDefers(t *testing.T) {
	tests := []struct {
		tag        string
		nativeType string
	}{
		{"input", "text"},
		{"input", ""},
		{"textarea", ""},
		{"select", ""},
		{"custom-input", "email"},
	}
	c := HTMLType{}
	for _, tt := range tests {
		f := &FormField{Tag: tt.tag, NativeType: tt.nativeType}
		if r := c.Detect(f); r != nil {
			t.Errorf("Detect(%s/%s) = %+v, want nil", tt.tag, tt.nativeType, r)
		}
	}
}

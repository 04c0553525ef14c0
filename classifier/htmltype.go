package classifier

// nativeTypes maps unambiguous native input types to field types. Plain text
// inputs, textareas and custom elements are deliberately absent so downstream
// strategies get a chance.
var nativeTypes = map[string]FieldType{
	"checkbox":       FieldCheckbox,
	"radio":          FieldRadio,
	"email":          FieldEmail,
	"tel":            FieldPhone,
	"password":       FieldPassword,
	"number":         FieldNumber,
	"date":           FieldDate,
	"time":           FieldDate,
	"datetime-local": FieldDate,
	"month":          FieldDate,
	"week":           FieldDate,
	"url":            FieldWebsite,
	"search":         FieldText,
	"range":          FieldNumber,
}

// HTMLType classifies fields by their native element type alone. Zero
// ambiguity, no learning: a match is always confidence 1.0.
type HTMLType struct{}

// Name implements Strategy.
func (HTMLType) Name() string { return "html-type" }

// Detect implements Strategy. Total over the finite native type set; returns
// nil for ambiguous native types.
func (HTMLType) Detect(f *FormField) *Result {
	if f.Tag != "" && f.Tag != "input" {
		return nil
	}
	t, ok := nativeTypes[f.NativeType]
	if !ok {
		return nil
	}
	return &Result{Type: t, Confidence: 1.0}
}

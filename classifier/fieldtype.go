package classifier

// FieldType denotes the semantic purpose of a form field.
type FieldType string

// Known field types. The set is closed: every classifier verdict must use one
// of these values.
const (
	FieldUnknown   FieldType = "unknown"
	FieldText      FieldType = "text"
	FieldName      FieldType = "name"
	FieldFullName  FieldType = "full-name"
	FieldSurname   FieldType = "surname"
	FieldEmail     FieldType = "email"
	FieldPhone     FieldType = "phone"
	FieldCPF       FieldType = "cpf"
	FieldCNPJ      FieldType = "cnpj"
	FieldCPFCNPJ   FieldType = "cpf-cnpj"
	FieldRG        FieldType = "rg"
	FieldCEP       FieldType = "cep"
	FieldDate      FieldType = "date"
	FieldBirthDate FieldType = "birth-date"
	FieldAddress   FieldType = "address"
	FieldNumber    FieldType = "number"
	FieldCity      FieldType = "city"
	FieldState     FieldType = "state"
	FieldCompany   FieldType = "company"
	FieldWebsite   FieldType = "website"
	FieldPassword  FieldType = "password"
	FieldMessage   FieldType = "message"
	FieldMoney     FieldType = "money"
	FieldCheckbox  FieldType = "checkbox"
	FieldRadio     FieldType = "radio"
)

// AllFieldTypes lists every known field type.
var AllFieldTypes = []FieldType{
	FieldUnknown, FieldText, FieldName, FieldFullName, FieldSurname,
	FieldEmail, FieldPhone, FieldCPF, FieldCNPJ, FieldCPFCNPJ, FieldRG,
	FieldCEP, FieldDate, FieldBirthDate, FieldAddress, FieldNumber,
	FieldCity, FieldState, FieldCompany, FieldWebsite, FieldPassword,
	FieldMessage, FieldMoney, FieldCheckbox, FieldRadio,
}

var fieldTypeSet = func() map[FieldType]bool {
	m := make(map[FieldType]bool, len(AllFieldTypes))
	for _, t := range AllFieldTypes {
		m[t] = true
	}
	return m
}()

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	return fieldTypeSet[t]
}

// ParseFieldType maps a string to a known FieldType.
func ParseFieldType(s string) (FieldType, bool) {
	t := FieldType(s)
	if t.Valid() {
		return t, true
	}
	return FieldUnknown, false
}

// nativeFallbackTypes maps native input types to field types for the
// statistical classifier's last-resort fallback.
var nativeFallbackTypes = map[string]FieldType{
	"email":    FieldEmail,
	"tel":      FieldPhone,
	"password": FieldPassword,
	"number":   FieldNumber,
	"date":     FieldDate,
}

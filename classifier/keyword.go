package classifier

import (
	"strings"

	"github.com/happyhackingspace/campo/internal/textutil"
)

type matchMode int

const (
	// matchSubstring matches the pattern anywhere in the signals. Used for
	// patterns of four or more characters.
	matchSubstring matchMode = iota
	// matchWholeWord matches only when the pattern is not adjacent to
	// another alphanumeric character on either side. Used for short codes
	// like "cpf" or "rg".
	matchWholeWord
)

type keywordRule struct {
	patterns []string
	mode     matchMode
	ftype    FieldType
}

// keywordRules is evaluated in order with first-match-wins semantics.
// Ordering is a correctness invariant: compound or more specific patterns
// ("cpf cnpj", "razao social", "nome completo", "sobrenome") must precede the
// shorter patterns they contain ("cpf", "nome"), because no best-match
// comparison ever happens.
var keywordRules = []keywordRule{
	{[]string{"cpfcnpj", "cpf cnpj", "cpf ou cnpj"}, matchSubstring, FieldCPFCNPJ},
	{[]string{"razao social", "nome fantasia"}, matchSubstring, FieldCompany},
	{[]string{"data de nascimento", "nascimento", "dt nasc"}, matchSubstring, FieldBirthDate},
	{[]string{"cpf"}, matchWholeWord, FieldCPF},
	{[]string{"cnpj"}, matchWholeWord, FieldCNPJ},
	{[]string{"rg"}, matchWholeWord, FieldRG},
	{[]string{"cep"}, matchWholeWord, FieldCEP},
	{[]string{"codigo postal"}, matchSubstring, FieldCEP},
	{[]string{"email", "e mail", "correio eletronico"}, matchSubstring, FieldEmail},
	{[]string{"telefone", "celular", "whatsapp", "fone"}, matchSubstring, FieldPhone},
	{[]string{"tel"}, matchWholeWord, FieldPhone},
	{[]string{"senha", "password"}, matchSubstring, FieldPassword},
	{[]string{"nome completo"}, matchSubstring, FieldFullName},
	{[]string{"sobrenome", "ultimo nome"}, matchSubstring, FieldSurname},
	{[]string{"primeiro nome", "nome"}, matchSubstring, FieldName},
	{[]string{"empresa", "companhia"}, matchSubstring, FieldCompany},
	{[]string{"endereco", "logradouro", "avenida"}, matchSubstring, FieldAddress},
	{[]string{"rua"}, matchWholeWord, FieldAddress},
	{[]string{"cidade", "municipio"}, matchSubstring, FieldCity},
	{[]string{"estado"}, matchSubstring, FieldState},
	{[]string{"uf"}, matchWholeWord, FieldState},
	{[]string{"numero"}, matchSubstring, FieldNumber},
	{[]string{"num", "nro"}, matchWholeWord, FieldNumber},
	{[]string{"valor", "preco"}, matchSubstring, FieldMoney},
	{[]string{"data"}, matchWholeWord, FieldDate},
	{[]string{"site", "website"}, matchSubstring, FieldWebsite},
	{[]string{"url"}, matchWholeWord, FieldWebsite},
	{[]string{"observacao", "observacoes", "comentario", "mensagem"}, matchSubstring, FieldMessage},
	{[]string{"obs"}, matchWholeWord, FieldMessage},
}

// Keyword classifies fields by an ordered list of pattern rules over the
// normalized signals. A match is always confidence 1.0; no match defers.
type Keyword struct{}

// Name implements Strategy.
func (Keyword) Name() string { return "keyword" }

// Detect implements Strategy.
func (Keyword) Detect(f *FormField) *Result {
	signals := textutil.Normalize(f.SignalText())
	if signals == "" {
		return nil
	}
	for _, rule := range keywordRules {
		for _, pattern := range rule.patterns {
			if rule.matches(signals, pattern) {
				return &Result{Type: rule.ftype, Confidence: 1.0}
			}
		}
	}
	return nil
}

func (r keywordRule) matches(signals, pattern string) bool {
	if r.mode == matchWholeWord {
		return textutil.ContainsWord(signals, pattern)
	}
	return strings.Contains(signals, pattern)
}

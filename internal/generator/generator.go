// Package generator produces synthetic Brazilian form values: valid CPF and
// CNPJ numbers, CEPs, phone numbers, names, and the other field types the
// classifier detects.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/happyhackingspace/campo/classifier"
	"github.com/happyhackingspace/campo/internal/textutil"
)

// Registry maps field types to value generators. A fixed seed makes output
// reproducible.
type Registry struct {
	rng *rand.Rand
}

// New creates a Registry seeded from the current time.
func New() *Registry {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

// NewSeeded creates a Registry with a fixed seed.
func NewSeeded(seed uint64) *Registry {
	return &Registry{rng: rand.New(rand.NewPCG(seed, seed))}
}

var firstNames = []string{
	"Ana", "Bruno", "Carla", "Diego", "Eduarda", "Felipe", "Gabriela",
	"Henrique", "Isabela", "João", "Larissa", "Marcos", "Natália",
	"Otávio", "Paula", "Rafael", "Sofia", "Thiago", "Vitória",
}

var surnames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Pereira", "Costa", "Almeida",
	"Ferreira", "Rodrigues", "Lima", "Carvalho", "Gomes", "Martins",
	"Araújo", "Ribeiro", "Barbosa",
}

var cities = []string{
	"São Paulo", "Rio de Janeiro", "Belo Horizonte", "Curitiba",
	"Porto Alegre", "Salvador", "Recife", "Fortaleza", "Campinas",
	"Florianópolis",
}

var states = []string{
	"SP", "RJ", "MG", "PR", "RS", "BA", "PE", "CE", "SC", "GO", "DF",
}

var streets = []string{
	"Rua das Flores", "Avenida Paulista", "Rua XV de Novembro",
	"Avenida Brasil", "Rua Sete de Setembro", "Travessa da Paz",
	"Alameda Santos", "Rua Augusta",
}

var companySuffixes = []string{"Ltda", "ME", "S.A.", "EPP"}

var companyStems = []string{
	"Comercial", "Distribuidora", "Tecnologia", "Serviços", "Consultoria",
	"Indústria", "Logística",
}

// ddd codes for generated phone numbers.
var dddCodes = []string{"11", "21", "31", "41", "51", "61", "71", "81", "85"}

// Generate produces a plausible value for the given field type. Unknown or
// unmapped types yield a generic text value.
func (g *Registry) Generate(t classifier.FieldType) string {
	switch t {
	case classifier.FieldCPF:
		return g.CPF()
	case classifier.FieldCNPJ:
		return g.CNPJ()
	case classifier.FieldCPFCNPJ:
		if g.rng.IntN(2) == 0 {
			return g.CPF()
		}
		return g.CNPJ()
	case classifier.FieldRG:
		return g.RG()
	case classifier.FieldCEP:
		return g.CEP()
	case classifier.FieldEmail:
		return g.Email()
	case classifier.FieldPhone:
		return g.Phone()
	case classifier.FieldName:
		return g.pick(firstNames)
	case classifier.FieldSurname:
		return g.pick(surnames)
	case classifier.FieldFullName:
		return g.FullName()
	case classifier.FieldBirthDate:
		return g.BirthDate()
	case classifier.FieldDate:
		return g.Date()
	case classifier.FieldAddress:
		return g.Address()
	case classifier.FieldNumber:
		return fmt.Sprintf("%d", g.rng.IntN(9999)+1)
	case classifier.FieldCity:
		return g.pick(cities)
	case classifier.FieldState:
		return g.pick(states)
	case classifier.FieldCompany:
		return g.Company()
	case classifier.FieldWebsite:
		return g.Website()
	case classifier.FieldPassword:
		return g.Password()
	case classifier.FieldMessage:
		return "Gostaria de mais informações, por favor."
	case classifier.FieldMoney:
		return fmt.Sprintf("%d,%02d", g.rng.IntN(900)+100, g.rng.IntN(100))
	case classifier.FieldCheckbox, classifier.FieldRadio:
		return "on"
	default:
		return "teste"
	}
}

// CPF returns a formatted CPF with valid check digits.
func (g *Registry) CPF() string {
	d := make([]int, 11)
	for i := 0; i < 9; i++ {
		d[i] = g.rng.IntN(10)
	}
	d[9] = cpfCheckDigit(d[:9], 10)
	d[10] = cpfCheckDigit(d[:10], 11)
	return fmt.Sprintf("%d%d%d.%d%d%d.%d%d%d-%d%d",
		d[0], d[1], d[2], d[3], d[4], d[5], d[6], d[7], d[8], d[9], d[10])
}

// cpfCheckDigit computes one CPF verification digit. Weights descend from
// startWeight down to 2.
func cpfCheckDigit(digits []int, startWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (startWeight - i)
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// CNPJ returns a formatted CNPJ with valid check digits.
func (g *Registry) CNPJ() string {
	d := make([]int, 14)
	for i := 0; i < 8; i++ {
		d[i] = g.rng.IntN(10)
	}
	// Branch number 0001.
	d[8], d[9], d[10], d[11] = 0, 0, 0, 1
	d[12] = cnpjCheckDigit(d[:12])
	d[13] = cnpjCheckDigit(d[:13])
	return fmt.Sprintf("%d%d.%d%d%d.%d%d%d/%d%d%d%d-%d%d",
		d[0], d[1], d[2], d[3], d[4], d[5], d[6], d[7], d[8], d[9], d[10], d[11], d[12], d[13])
}

// cnpjCheckDigit computes one CNPJ verification digit over 12 or 13 digits.
func cnpjCheckDigit(digits []int) int {
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	offset := len(weights) - len(digits)
	sum := 0
	for i, d := range digits {
		sum += d * weights[offset+i]
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// RG returns a 9-digit RG-style number, formatted.
func (g *Registry) RG() string {
	d := make([]int, 9)
	for i := range d {
		d[i] = g.rng.IntN(10)
	}
	return fmt.Sprintf("%d%d.%d%d%d.%d%d%d-%d",
		d[0], d[1], d[2], d[3], d[4], d[5], d[6], d[7], d[8])
}

// CEP returns a formatted 8-digit postal code.
func (g *Registry) CEP() string {
	return fmt.Sprintf("%05d-%03d", g.rng.IntN(100000), g.rng.IntN(1000))
}

// Phone returns a mobile number with DDD in the common written format.
func (g *Registry) Phone() string {
	ddd := g.pick(dddCodes)
	return fmt.Sprintf("(%s) 9%04d-%04d", ddd, g.rng.IntN(10000), g.rng.IntN(10000))
}

// Email returns a lowercase address derived from a generated name.
func (g *Registry) Email() string {
	first := strings.ToLower(stripAccents(g.pick(firstNames)))
	last := strings.ToLower(stripAccents(g.pick(surnames)))
	domains := []string{"gmail.com", "hotmail.com", "outlook.com", "bol.com.br", "uol.com.br"}
	return fmt.Sprintf("%s.%s%d@%s", first, last, g.rng.IntN(100), g.pick(domains))
}

// FullName returns "First Surname".
func (g *Registry) FullName() string {
	return g.pick(firstNames) + " " + g.pick(surnames)
}

// BirthDate returns a dd/mm/yyyy date for an adult between 18 and 70.
func (g *Registry) BirthDate() string {
	age := 18 + g.rng.IntN(53)
	year := time.Now().Year() - age
	month := g.rng.IntN(12) + 1
	day := g.rng.IntN(28) + 1
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}

// Date returns a dd/mm/yyyy date within the current year.
func (g *Registry) Date() string {
	month := g.rng.IntN(12) + 1
	day := g.rng.IntN(28) + 1
	return fmt.Sprintf("%02d/%02d/%04d", day, month, time.Now().Year())
}

// Address returns "Street, number".
func (g *Registry) Address() string {
	return fmt.Sprintf("%s, %d", g.pick(streets), g.rng.IntN(2000)+1)
}

// Company returns a company name with a legal-form suffix.
func (g *Registry) Company() string {
	return fmt.Sprintf("%s %s %s", g.pick(companyStems), g.pick(surnames), g.pick(companySuffixes))
}

// Website returns an https URL on a .com.br domain.
func (g *Registry) Website() string {
	stem := strings.ToLower(stripAccents(g.pick(surnames)))
	return fmt.Sprintf("https://www.%s%d.com.br", stem, g.rng.IntN(100))
}

// Password returns a 12-character password with mixed character classes.
func (g *Registry) Password() string {
	const lower = "abcdefghijkmnpqrstuvwxyz"
	const upper = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const symbols = "!@#$%&*"
	all := lower + upper + digits + symbols

	b := make([]byte, 12)
	b[0] = upper[g.rng.IntN(len(upper))]
	b[1] = lower[g.rng.IntN(len(lower))]
	b[2] = digits[g.rng.IntN(len(digits))]
	b[3] = symbols[g.rng.IntN(len(symbols))]
	for i := 4; i < len(b); i++ {
		b[i] = all[g.rng.IntN(len(all))]
	}
	g.rng.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
	return string(b)
}

func (g *Registry) pick(options []string) string {
	return options[g.rng.IntN(len(options))]
}

func stripAccents(s string) string {
	return textutil.StripDiacritics(s)
}

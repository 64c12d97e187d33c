package certificates

import "strings"

// Placeholders recognised in certificate templates
const (
	TokenSurname     = "{{COGNOME}}"
	TokenGivenName   = "{{NOME}}"
	TokenFiscalCode  = "{{CF}}"
	TokenCode        = "{{CODICE}}"
	TokenSigil       = "{{SIGLA}}"
	TokenDateOfBirth = "{{DATA_NASCITA}}"
	TokenBirthPlace  = "{{LUOGO_NASCITA}}"
	TokenCompany     = "{{SOCIETA}}"
	TokenCourseName  = "{{NOME_CORSO}}"
	TokenPerformedOn = "{{DATA_SVOLGIMENTO}}"
	TokenHours       = "{{ORE_DURATA}}"
	TokenIssuedOn    = "{{DATA_RILASCIOAT}}"
	TokenInstructor  = "{{DOCENTE}}"
	TokenSyllabus    = "{{PROGRAMMA}}"
)

// Vocabulary is the closed set of placeholders the renderer substitutes.
var Vocabulary = []string{
	TokenSurname, TokenGivenName, TokenFiscalCode, TokenCode, TokenSigil,
	TokenDateOfBirth, TokenBirthPlace, TokenCompany, TokenCourseName,
	TokenPerformedOn, TokenHours, TokenIssuedOn, TokenInstructor, TokenSyllabus,
}

var dateTokens = map[string]bool{
	TokenDateOfBirth: true,
	TokenIssuedOn:    true,
}

// TokenMap maps placeholders to their replacement text
type TokenMap map[string]string

// replacer builds a single-pass replacer over the vocabulary entries present in m.
// Date tokens are normalised to DD/MM/YYYY.
func (m TokenMap) replacer() (*strings.Replacer, []string) {
	var pairs, keys []string
	for _, tok := range Vocabulary {
		v, ok := m[tok]
		if !ok {
			continue
		}
		if dateTokens[tok] {
			v = FormatDisplayDate(v)
		}
		pairs = append(pairs, tok, v)
		keys = append(keys, tok)
	}
	return strings.NewReplacer(pairs...), keys
}

package domain

// LEIRecord carries the identity attributes the GLEIF registry resolves for
// a legal entity identifier.
type LEIRecord struct {
	LEI       string
	Status    string
	LegalName string
	BICs      []string
}

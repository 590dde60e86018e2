package parser

import (
	"strings"

	"staybook/internal/domain"
)

type classifierRule struct {
	keywords []string
	docType  domain.DocumentType
}

// Checked in order; the first rule with a matching keyword wins.
var classifierRules = []classifierRule{
	{keywords: []string{"check-in", "entrada"}, docType: domain.DocumentTypeCheckIn},
	{keywords: []string{"check-out", "saída"}, docType: domain.DocumentTypeCheckOut},
	{keywords: []string{"controlo", "control"}, docType: domain.DocumentTypeControlFile},
}

// Classify labels a document from keyword signals in its text.
func Classify(text string) domain.DocumentType {
	lower := strings.ToLower(text)
	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.docType
			}
		}
	}
	return domain.DocumentTypeUnknown
}

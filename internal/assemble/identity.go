// Package assemble builds typed sub-records from a raw document, one
// assembler per logical field group. Each assembler is a pure function of
// the document, composing the candidate locator, the disambiguator and the
// numeric converter.
package assemble

import (
	"regexp"
	"strings"

	"github.com/assina-energy/fatura-cli/internal/locate"
	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

var (
	addressTruncate = regexp.MustCompile(`(?i)(CEP.*|Cidade:.*)`)
)

// Identity resolves who the invoice bills: name, tax id, address
// components and the premise identifier (UC).
//
// Cross-field duty: the UC is resolved first, and any accidental match of
// it inside the address is stripped, re-collapsing the whitespace.
func Identity(doc *model.RawDocument, reg *locate.Registry) model.Client {
	c := model.Client{
		TaxID: locate.Resolve(reg.Spec("cpf"), doc),
	}
	if name := locate.Resolve(reg.Spec("nome"), doc); name != nil {
		v := cleanName(*name)
		c.Name = &v
	}

	if uc := locate.Resolve(reg.Spec("uc"), doc); uc != nil {
		v := normalize.Digits(*uc)
		c.UC = &v
	}

	c.Address = address(doc, reg, c.UC)
	return c
}

func address(doc *model.RawDocument, reg *locate.Registry, uc *string) model.Address {
	a := model.Address{
		City:  locate.Resolve(reg.Spec("cidade"), doc),
		State: locate.Resolve(reg.Spec("uf"), doc),
		Zip:   locate.Resolve(reg.Spec("cep"), doc),
	}

	street := locate.Resolve(reg.Spec("endereco"), doc)
	if street == nil {
		return a
	}

	s := addressTruncate.ReplaceAllString(*street, "")
	if uc != nil {
		s = normalize.StripSubstring(s, *uc)
	}
	s = normalize.Text(s)
	if s != "" {
		a.Street = &s
	}
	return a
}

// cleanName drops trailing masked-document noise OCR sometimes glues onto
// the name line.
func cleanName(v string) string {
	if i := strings.Index(v, " CPF:"); i > 0 {
		v = v[:i]
	}
	return normalize.Text(v)
}

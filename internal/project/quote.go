package project

import (
	"path/filepath"
	"strings"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// QuoteExtension is the file extension of saved quotes.
const QuoteExtension = ".pquote"

// SaveQuote writes a quote, including its last result and overrides, as
// JSON. The extension is added when missing.
func SaveQuote(path string, q model.Quote) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), QuoteExtension) {
		path += QuoteExtension
	}
	if err := writeJSON(path, q); err != nil {
		return "", err
	}
	return path, nil
}

// LoadQuote reads a quote saved by SaveQuote. Settings missing from the
// file keep their defaults.
func LoadQuote(path string) (model.Quote, error) {
	q := model.NewQuote()
	if err := mustReadJSON(path, &q); err != nil {
		return model.Quote{}, err
	}
	if q.Products == nil {
		q.Products = []model.Product{}
	}
	return q, nil
}

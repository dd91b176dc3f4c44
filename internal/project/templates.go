package project

import "github.com/piwi3910/PrintQuote/internal/model"

// DefaultTemplatePath returns ~/.printquote/templates.json.
func DefaultTemplatePath() (string, error) {
	return dataFile("templates.json")
}

func SaveTemplates(path string, store model.TemplateStore) error {
	return writeJSON(path, store)
}

// LoadTemplates reads the product templates at path. Without a file the
// store is seeded with the built-in presets.
func LoadTemplates(path string) (model.TemplateStore, error) {
	var store model.TemplateStore
	found, err := readJSON(path, &store)
	if err != nil {
		return model.TemplateStore{}, err
	}
	if !found {
		store = model.NewTemplateStore()
		for _, t := range model.BuiltInTemplates() {
			store.Add(t)
		}
	}
	if store.Templates == nil {
		store.Templates = []model.ProductTemplate{}
	}
	return store, nil
}

func LoadDefaultTemplates() (model.TemplateStore, error) {
	path, err := DefaultTemplatePath()
	if err != nil {
		return model.NewTemplateStore(), err
	}
	return LoadTemplates(path)
}

func SaveDefaultTemplates(store model.TemplateStore) error {
	path, err := DefaultTemplatePath()
	if err != nil {
		return err
	}
	return SaveTemplates(path, store)
}

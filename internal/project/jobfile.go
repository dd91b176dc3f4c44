package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/piwi3910/PrintQuote/internal/model"
	"gopkg.in/yaml.v3"
)

// JobFile is the hand-written description of a quote read by the CLI.
// Products may be given in YAML or JSON; settings are laid over the
// defaults, so a file only names what it changes.
type JobFile struct {
	Name      string         `yaml:"name" json:"name"`
	Client    string         `yaml:"client,omitempty" json:"client,omitempty"`
	Settings  model.Settings `yaml:"settings" json:"settings"`
	Products  []JobProduct   `yaml:"products" json:"products"`
	Overrides []JobOverride  `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// JobProduct is one product of a job file. Unset sides, colours, method
// and rotation take the same defaults as a new product.
type JobProduct struct {
	ID          string        `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string        `yaml:"name" json:"name"`
	Quantity    int           `yaml:"quantity" json:"quantity"`
	Width       float64       `yaml:"width" json:"width"`
	Height      float64       `yaml:"height" json:"height"`
	FlatWidth   float64       `yaml:"flat_width,omitempty" json:"flat_width,omitempty"`
	FlatHeight  float64       `yaml:"flat_height,omitempty" json:"flat_height,omitempty"`
	Sides       int           `yaml:"sides,omitempty" json:"sides,omitempty"`
	Colours     int           `yaml:"colours,omitempty" json:"colours,omitempty"`
	Method      string        `yaml:"method,omitempty" json:"method,omitempty"`
	AllowRotate *bool         `yaml:"allow_rotate,omitempty" json:"allow_rotate,omitempty"`
	Papers      []model.Paper `yaml:"papers" json:"papers"`
}

// JobOverride pins the sheets or price of one paper, addressed by product
// name or ID and the paper's position in the product.
type JobOverride struct {
	Product       string   `yaml:"product" json:"product"`
	Paper         int      `yaml:"paper" json:"paper"`
	EnteredSheets *int     `yaml:"sheets,omitempty" json:"sheets,omitempty"`
	PricePerSheet *float64 `yaml:"price,omitempty" json:"price,omitempty"`
}

// LoadJobFile reads a job file, picking JSON for a .json extension and
// YAML otherwise, and converts it to a quote.
func LoadJobFile(path string) (model.Quote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to read job file: %w", err)
	}
	return ParseJobFile(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

// ParseJobFile decodes job file data and converts it to a quote.
func ParseJobFile(data []byte, isJSON bool) (model.Quote, error) {
	job := JobFile{Name: "Untitled", Settings: model.DefaultSettings()}
	if isJSON {
		err := json.Unmarshal(data, &job)
		if err != nil {
			return model.Quote{}, fmt.Errorf("failed to parse job file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &job); err != nil {
		return model.Quote{}, fmt.Errorf("failed to parse job file: %w", err)
	}
	return job.Quote()
}

// Quote converts the job file into a quote, resolving method names and
// override references.
func (j JobFile) Quote() (model.Quote, error) {
	q := model.NewQuote()
	q.Name = j.Name
	q.Client = j.Client
	q.Settings = j.Settings

	for i, jp := range j.Products {
		p, err := jp.product()
		if err != nil {
			return model.Quote{}, fmt.Errorf("product %d (%s): %w", i+1, jp.Name, err)
		}
		q.Products = append(q.Products, p)
	}

	ov := model.Overrides{}
	for _, jo := range j.Overrides {
		idx := findProduct(q.Products, jo.Product)
		if idx < 0 {
			return model.Quote{}, fmt.Errorf("override references unknown product %q", jo.Product)
		}
		if jo.Paper < 0 || jo.Paper >= len(q.Products[idx].Papers) {
			return model.Quote{}, fmt.Errorf("override for %q references paper %d of %d", jo.Product, jo.Paper, len(q.Products[idx].Papers))
		}
		key := model.PaperKey{ProductID: q.Products[idx].ID, PaperIndex: jo.Paper}
		ov = ov.With(key, model.Override{EnteredSheets: jo.EnteredSheets, PricePerSheet: jo.PricePerSheet})
	}
	if len(ov) > 0 {
		q.Overrides = ov.List()
	}
	return q, nil
}

func (jp JobProduct) product() (model.Product, error) {
	method := model.MethodOffset
	if jp.Method != "" {
		m, err := model.ParseMethod(jp.Method)
		if err != nil {
			return model.Product{}, err
		}
		method = m
	}

	p := model.NewProduct(jp.Name, jp.Width, jp.Height, jp.Quantity, method)
	if jp.ID != "" {
		p.ID = jp.ID
	}
	p.FlatWidth = jp.FlatWidth
	p.FlatHeight = jp.FlatHeight
	if jp.Sides != 0 {
		p.Sides = jp.Sides
	}
	if jp.Colours != 0 {
		p.Colours = jp.Colours
	}
	if jp.AllowRotate != nil {
		p.AllowRotate = *jp.AllowRotate
	}
	p.Papers = append([]model.Paper{}, jp.Papers...)
	return p, nil
}

func findProduct(products []model.Product, ref string) int {
	for i, p := range products {
		if p.ID == ref {
			return i
		}
	}
	for i, p := range products {
		if strings.EqualFold(p.Name, ref) {
			return i
		}
	}
	return -1
}

// JobFileFromQuote builds the job file form of a quote, for writing an
// editable starting point.
func JobFileFromQuote(q model.Quote) JobFile {
	j := JobFile{Name: q.Name, Client: q.Client, Settings: q.Settings}
	for _, p := range q.Products {
		rotate := p.AllowRotate
		id := p.ID
		if id == "" {
			id = uuid.New().String()[:8]
		}
		j.Products = append(j.Products, JobProduct{
			ID:          id,
			Name:        p.Name,
			Quantity:    p.Quantity,
			Width:       p.CloseWidth,
			Height:      p.CloseHeight,
			FlatWidth:   p.FlatWidth,
			FlatHeight:  p.FlatHeight,
			Sides:       p.Sides,
			Colours:     p.Colours,
			Method:      string(p.Method),
			AllowRotate: &rotate,
			Papers:      p.Papers,
		})
	}
	for _, o := range q.Overrides {
		j.Overrides = append(j.Overrides, JobOverride{
			Product:       o.Key.ProductID,
			Paper:         o.Key.PaperIndex,
			EnteredSheets: o.Override.EnteredSheets,
			PricePerSheet: o.Override.PricePerSheet,
		})
	}
	return j
}

// SaveJobFile writes a job file as YAML.
func SaveJobFile(path string, j JobFile) error {
	data, err := yaml.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to marshal job file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write job file: %w", err)
	}
	return nil
}

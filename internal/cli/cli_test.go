package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

const testJob = `name: Trade Show
client: Acme
products:
  - id: card
    name: Business Card
    quantity: 5000
    width: 9
    height: 5
    sides: 2
    papers:
      - name: Coated Matt
        gsm: 300
  - id: postcard
    name: Postcard
    quantity: 500
    width: 14.8
    height: 10.5
    method: digital
    papers:
      - name: Bristol Board
        gsm: 350
overrides:
  - product: card
    paper: 0
    sheets: 150
`

type testEnv struct {
	dir       string
	job       string
	inventory string
	config    string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	env := testEnv{
		dir:       dir,
		job:       filepath.Join(dir, "job.yaml"),
		inventory: filepath.Join(dir, "inventory.json"),
		config:    filepath.Join(dir, "config.json"),
	}
	require.NoError(t, os.WriteFile(env.job, []byte(testJob), 0644))
	return env
}

// run executes the CLI against the test environment's files.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.config, "--inventory", e.inventory}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "printquote dev")
}

func TestLayout_JSON(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "layout", "--sheet", "100x70", "--piece", "9x5",
		"--gripper", "0.9", "--edge", "0", "--gap", "0.5", "--bleed", "0.3", "--json")
	require.NoError(t, err)

	var l model.LayoutResult
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	assert.Greater(t, l.ItemsPerSheet, 80)
	assert.Equal(t, l.ItemsPerRow*l.ItemsPerCol, l.ItemsPerSheet)
}

func TestLayout_Table(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "layout", "--sheet", "50x35", "--piece", "9x5")
	require.NoError(t, err)
	assert.Contains(t, out, "Ups")
	assert.Contains(t, out, "Efficiency")
}

func TestLayout_Errors(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "layout", "--sheet", "50x35")
	assert.Error(t, err, "piece is required")

	_, err = env.run(t, "layout", "--sheet", "50by35", "--piece", "9x5")
	assert.Error(t, err)
}

func TestEstimate_Table(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "estimate", env.job)
	require.NoError(t, err)

	assert.Contains(t, out, "Trade Show")
	assert.Contains(t, out, "Business Card")
	assert.Contains(t, out, "Postcard")
	assert.Contains(t, out, "150*", "overridden sheets are marked")
	assert.Contains(t, out, "Quote total")
}

func TestEstimate_JSON(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "estimate", env.job, "--json")
	require.NoError(t, err)

	var res model.QuoteResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Results, 2)
	for _, r := range res.Results {
		assert.True(t, r.Feasible, r.ProductName)
		assert.Equal(t, model.PriceCatalog, r.PriceSource)
	}
	assert.Equal(t, model.MethodDigital, res.Results[1].Method)
}

func TestEstimate_Save(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "estimate", env.job, "--save", filepath.Join(env.dir, "trade-show"))
	require.NoError(t, err)

	path := filepath.Join(env.dir, "trade-show"+project.QuoteExtension)
	q, err := project.LoadQuote(path)
	require.NoError(t, err)
	require.NotNil(t, q.Result)
	assert.Len(t, q.Overrides, 1)

	cfg, err := project.LoadAppConfig(env.config)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, cfg.RecentQuotes)

	// A saved quote can be estimated again
	out, err := env.run(t, "estimate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Business Card")
}

func TestEstimate_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "estimate", filepath.Join(env.dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "compare", env.job, "--product", "Business Card", "--detail")
	require.NoError(t, err)

	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "No Rotation")
	assert.Contains(t, out, "Business Card / Coated Matt 300gsm")
	assert.NotContains(t, out, "Postcard")
}

func TestCompare_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "compare", env.job, "--product", "Banner")
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "catalog", "--papers")
	require.NoError(t, err)

	assert.Contains(t, out, "Offset sheets")
	assert.Contains(t, out, "SRA3")
	assert.Contains(t, out, "Coated Matt")

	// The default inventory is written on first use
	_, err = os.Stat(env.inventory)
	assert.NoError(t, err)
}

func TestImportPrices(t *testing.T) {
	env := newTestEnv(t)
	csv := filepath.Join(env.dir, "prices.csv")
	require.NoError(t, os.WriteFile(csv, []byte("Paper,GSM,Price\nCoated Matt,300,2.10\nRecycled,90,0.30\n"), 0644))

	out, err := env.run(t, "import", "prices", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "2 papers merged")

	inv, err := project.LoadInventory(env.inventory)
	require.NoError(t, err)
	price, ok := inv.PriceLookup()("coated matt", 300)
	assert.True(t, ok)
	assert.Equal(t, 2.10, price)
	_, ok = inv.PriceLookup()("Recycled", 90)
	assert.True(t, ok)
}

func TestImportPrices_DryRun(t *testing.T) {
	env := newTestEnv(t)
	csv := filepath.Join(env.dir, "prices.csv")
	require.NoError(t, os.WriteFile(csv, []byte("Paper,GSM,Price\nRecycled,90,0.30\n"), 0644))

	out, err := env.run(t, "import", "prices", csv, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "inventory not changed")

	_, err = os.Stat(env.inventory)
	if err == nil {
		inv, err := project.LoadInventory(env.inventory)
		require.NoError(t, err)
		_, ok := inv.PriceLookup()("Recycled", 90)
		assert.False(t, ok)
	}
}

func TestImportPrices_Empty(t *testing.T) {
	env := newTestEnv(t)
	csv := filepath.Join(env.dir, "empty.csv")
	require.NoError(t, os.WriteFile(csv, []byte(""), 0644))

	_, err := env.run(t, "import", "prices", csv)
	assert.Error(t, err)
}

func TestImportProducts_ThenEstimate(t *testing.T) {
	env := newTestEnv(t)
	csv := filepath.Join(env.dir, "products.csv")
	data := "Name,Qty,Width,Height,Method,Paper,GSM\n" +
		"Flyer,2000,21,29.7,offset,Coated Gloss,130\n" +
		"Flyer,2000,21,29.7,offset,Coated Gloss,170\n"
	require.NoError(t, os.WriteFile(csv, []byte(data), 0644))

	out, err := env.run(t, "import", "products", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "1 products written")

	job := filepath.Join(env.dir, "products.yaml")
	out, err = env.run(t, "estimate", job, "--json")
	require.NoError(t, err)

	var res model.QuoteResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Results, 2)
}

func TestExport_Files(t *testing.T) {
	env := newTestEnv(t)
	for _, tc := range []struct {
		format string
		file   string
	}{
		{"pdf", "quote.pdf"},
		{"xlsx", "quote.xlsx"},
		{"tickets", "tickets.pdf"},
		{"dxf", "sheet.dxf"},
		{"cutplan", "cuts.txt"},
	} {
		t.Run(tc.format, func(t *testing.T) {
			path := filepath.Join(env.dir, tc.file)
			out, err := env.run(t, "export", tc.format, env.job, "-o", path)
			require.NoError(t, err)
			assert.Contains(t, out, "Wrote")

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.NotZero(t, info.Size())
		})
	}
}

func TestExport_DefaultOutput(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "export", "pdf", env.job)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.dir, "job.pdf"))
	assert.NoError(t, err)
}

func TestExport_CutPlanStdout(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "export", "cutplan", env.job, "--result", "0", "--profile", "Generic")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "; PrintQuote cut program: Business Card"), out)
	assert.Contains(t, out, "TURN 90")
}

func TestExport_ResultOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "export", "dxf", env.job, "--result", "9")
	assert.Error(t, err)
}

func TestExport_UnknownProfile(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "export", "cutplan", env.job, "--profile", "Nonexistent")
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    model.PieceSpec
		wantErr bool
	}{
		{"50x35", model.PieceSpec{Width: 50, Height: 35}, false},
		{" 9.9 X 21 ", model.PieceSpec{Width: 9.9, Height: 21}, false},
		{"50", model.PieceSpec{}, true},
		{"ax5", model.PieceSpec{}, true},
		{"0x5", model.PieceSpec{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSize(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

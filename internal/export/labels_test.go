package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func TestExportTickets_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.pdf")

	if err := ExportTickets(path, buildTestQuote()); err != nil {
		t.Fatalf("ExportTickets returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("tickets file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("tickets file is empty")
	}
}

func TestExportTickets_NoResult(t *testing.T) {
	if err := ExportTickets(filepath.Join(t.TempDir(), "x.pdf"), model.NewQuote()); err == nil {
		t.Error("expected error for a quote without results")
	}
}

func TestExportTickets_NoFeasibleResults(t *testing.T) {
	q := buildTestQuote()
	q.Result.Results = q.Result.Results[2:]
	if err := ExportTickets(filepath.Join(t.TempDir(), "x.pdf"), q); err == nil {
		t.Error("expected error when nothing is feasible")
	}
}

func TestCollectTicketInfos(t *testing.T) {
	tickets := CollectTicketInfos(buildTestQuote())

	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}

	first := tickets[0]
	if first.ProductName != "Business Card" || first.Sheet != "70x100 Quarter" {
		t.Errorf("unexpected first ticket %+v", first)
	}
	if first.Quote != "Spring Campaign" {
		t.Errorf("expected quote name, got %q", first.Quote)
	}

	second := tickets[1]
	q := buildTestQuote()
	if want := q.Result.Results[1].Layout.ItemsPerSheet + 3; second.Ups != want {
		t.Errorf("expected %d ups including the remnant grid, got %d", want, second.Ups)
	}
	if second.Method != "digital" || second.Sheets != 44 {
		t.Errorf("unexpected second ticket %+v", second)
	}
}

func TestTicketInfo_JSONRoundTrip(t *testing.T) {
	info := CollectTicketInfos(buildTestQuote())[0]

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	var decoded TicketInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if decoded != info {
		t.Errorf("round trip mismatch: %+v vs %+v", decoded, info)
	}
}

func TestExportTickets_ManyResults(t *testing.T) {
	q := buildTestQuote()
	base := q.Result.Results[0]
	q.Result.Results = nil
	for i := 0; i < 20; i++ {
		r := base
		r.PaperIndex = i
		q.Result.Results = append(q.Result.Results, r)
	}

	path := filepath.Join(t.TempDir(), "many.pdf")
	if err := ExportTickets(path, q); err != nil {
		t.Fatalf("ExportTickets returned error: %v", err)
	}
}

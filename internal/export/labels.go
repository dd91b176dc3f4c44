package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PrintQuote/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// TicketInfo holds the data encoded into each job ticket's QR code.
type TicketInfo struct {
	Quote       string  `json:"quote,omitempty"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product"`
	Quantity    int     `json:"quantity"`
	Paper       string  `json:"paper"`
	GSM         int     `json:"gsm"`
	Method      string  `json:"method"`
	Sheet       string  `json:"sheet"`
	Ups         int     `json:"ups"`
	Orientation string  `json:"orientation"`
	Sheets      int     `json:"sheets"`
	Total       float64 `json:"total"`
}

// Ticket layout constants: two columns by four rows of 99 x 67.7mm
// tickets on A4 portrait.
const (
	ticketMarginTop  = 13.0
	ticketMarginLeft = 6.0
	ticketWidth      = 99.0
	ticketHeight     = 67.7
	ticketCols       = 2
	ticketRows       = 4
	ticketsPerPage   = ticketCols * ticketRows
	qrSize           = 30.0
	ticketPadding    = 3.0
)

// ExportTickets generates a PDF of QR-coded job tickets, one per feasible
// paper result. Each ticket carries the production details in text and a
// QR code encoding them as JSON for scanning at the press.
func ExportTickets(path string, quote model.Quote) error {
	if quote.Result == nil || len(quote.Result.Results) == 0 {
		return fmt.Errorf("no results to generate tickets for")
	}

	tickets := CollectTicketInfos(quote)
	if len(tickets) == 0 {
		return fmt.Errorf("no feasible results to generate tickets for")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, ticket := range tickets {
		if i%ticketsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % ticketsPerPage
		col := posOnPage % ticketCols
		row := posOnPage / ticketCols

		x := ticketMarginLeft + float64(col)*ticketWidth
		y := ticketMarginTop + float64(row)*ticketHeight

		if err := renderTicket(pdf, x, y, i, ticket); err != nil {
			return fmt.Errorf("failed to render ticket for %q: %w", ticket.ProductName, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderTicket draws a single ticket at the given position.
func renderTicket(pdf *fpdf.Fpdf, x, y float64, index int, info TicketInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, ticketWidth, ticketHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%s", index, info.ProductID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + ticketWidth - qrSize - ticketPadding
	qrY := y + ticketPadding
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + ticketPadding
	textW := ticketWidth - qrSize - 3*ticketPadding

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+ticketPadding)
	pdf.CellFormat(textW, 5, truncate(pdf, info.ProductName, textW), "", 1, "L", false, 0, "")

	lines := []string{
		fmt.Sprintf("Qty: %d", info.Quantity),
		fmt.Sprintf("Paper: %s %dgsm", info.Paper, info.GSM),
		fmt.Sprintf("Method: %s", info.Method),
		fmt.Sprintf("Sheet: %s", info.Sheet),
		fmt.Sprintf("Ups: %d (%s)", info.Ups, info.Orientation),
		fmt.Sprintf("Sheets: %d", info.Sheets),
	}
	pdf.SetFont("Helvetica", "", 8)
	lineY := y + ticketPadding + 7
	for _, line := range lines {
		pdf.SetXY(textX, lineY)
		pdf.CellFormat(textW, 4, truncate(pdf, line, textW), "", 1, "L", false, 0, "")
		lineY += 4.5
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(textX, y+ticketHeight-ticketPadding-6)
	pdf.CellFormat(textW, 5, fmt.Sprintf("Total: %.2f", info.Total), "", 0, "L", false, 0, "")

	if info.Quote != "" {
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetTextColor(100, 100, 100)
		pdf.SetXY(qrX, qrY+qrSize+1)
		pdf.CellFormat(qrSize, 4, truncate(pdf, info.Quote, qrSize), "", 0, "C", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width at the
// current font.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CollectTicketInfos extracts ticket information from the feasible
// results of a quote, in result order.
func CollectTicketInfos(quote model.Quote) []TicketInfo {
	if quote.Result == nil {
		return nil
	}
	var tickets []TicketInfo
	for _, r := range quote.Result.Results {
		if !r.Feasible {
			continue
		}
		ups := r.Layout.ItemsPerSheet
		if r.Option != nil {
			ups = r.Option.Ups
		}
		tickets = append(tickets, TicketInfo{
			Quote:       quote.Name,
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			Paper:       r.PaperName,
			GSM:         r.GSM,
			Method:      string(r.Method),
			Sheet:       sheetLabel(r),
			Ups:         ups,
			Orientation: r.Layout.Orientation.String(),
			Sheets:      r.RecommendedSheets,
			Total:       r.Total,
		})
	}
	return tickets
}

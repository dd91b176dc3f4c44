// PrintQuote desktop estimator.
//
// Build:
//   go build -o printquote-desktop ./cmd/printquote-desktop
//
// Using fyne-cross for packaged builds:
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64
package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/logging"
	"github.com/piwi3910/PrintQuote/internal/ui"
)

func main() {
	log, err := logging.New(os.Getenv("PRINTQUOTE_DEBUG") != "")
	if err != nil {
		log = zap.NewNop()
	}
	defer func() { _ = log.Sync() }()

	application := app.NewWithID("com.piwi3910.printquote")
	window := application.NewWindow("PrintQuote")

	appUI := ui.NewApp(window, log)
	application.Settings().SetTheme(appUI.Theme())
	appUI.SetupMenus()
	appUI.SetupShortcuts()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1280, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}

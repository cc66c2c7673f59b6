package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/urfave/cli/v2"

	"github.com/iafilius/PhishingDashboard/cmd/phishdash/uihelpers"
	"github.com/iafilius/PhishingDashboard/src/chartkit"
	"github.com/iafilius/PhishingDashboard/src/config"
	"github.com/iafilius/PhishingDashboard/src/dashboard"
	"github.com/iafilius/PhishingDashboard/src/logging"
)

// variantTheme pins the default theme to one variant regardless of the OS setting.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (v variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return v.Theme.Color(name, v.variant)
}

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    config.Config
	ctrl   *dashboard.Controller

	pieImg *canvas.Image
	barImg *canvas.Image

	safeLabel     *widget.Label
	phishingLabel *widget.Label
	statusLabel   *widget.Label

	darkMode bool
}

// imageSurface presents chart frames on a fyne image. Frames arrive on the UI thread.
type imageSurface struct {
	img *canvas.Image
}

func (s imageSurface) Present(img image.Image) {
	s.img.Image = img
	s.img.Refresh()
}

// fyneDispatcher runs chart work on fyne's UI goroutine.
var fyneDispatcher = dashboard.DispatcherFunc(fyne.Do)

func runGUI(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	a := app.NewWithID("com.phishdash.viewer")
	w := a.NewWindow("Phishing Dashboard")
	state := &uiState{app: a, window: w, cfg: cfg}
	state.darkMode = a.Preferences().BoolWithFallback("darkTheme", false)
	applyTheme(state)
	w.Resize(fyne.NewSize(
		float32(a.Preferences().IntWithFallback("windowWidth", 1200)),
		float32(a.Preferences().IntWithFallback("windowHeight", 640)),
	))

	state.safeLabel = widget.NewLabelWithStyle("-", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	state.phishingLabel = widget.NewLabelWithStyle("-", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	state.statusLabel = widget.NewLabel("Waiting for data…")
	cards := container.NewGridWithColumns(2,
		widget.NewCard("Safe emails", "", state.safeLabel),
		widget.NewCard("Phishing emails", "", state.phishingLabel),
	)

	cw, ch := cfg.ChartWidth, cfg.ChartHeight
	state.pieImg = canvas.NewImageFromImage(chartkit.Blank(cw, ch, color.White))
	state.pieImg.FillMode = canvas.ImageFillContain
	state.pieImg.SetMinSize(fyne.NewSize(float32(cw), float32(ch)))
	state.barImg = canvas.NewImageFromImage(chartkit.Blank(cw, ch, color.White))
	state.barImg.FillMode = canvas.ImageFillContain
	state.barImg.SetMinSize(fyne.NewSize(float32(cw), float32(ch)))

	setCounts := func(safe, phishing int) {
		state.safeLabel.SetText(strconv.Itoa(safe))
		state.phishingLabel.SetText(strconv.Itoa(phishing))
		state.statusLabel.SetText("Updated " + time.Now().Format("15:04:05"))
	}
	state.ctrl = dashboard.NewController(newClient(cfg), dashboard.Mounts{
		Pie:   imageSurface{img: state.pieImg},
		Bar:   imageSurface{img: state.barImg},
		Cards: dashboard.CardsFunc(setCounts),
	}, chartSettings(cfg), fyneDispatcher)

	pieHover := newHoverOverlay(state.ctrl.Pie, fyneDispatcher)
	barHover := newHoverOverlay(state.ctrl.Bar, fyneDispatcher)
	charts := container.NewGridWithColumns(2,
		widget.NewCard("Safe vs phishing", "", container.NewStack(state.pieImg, pieHover)),
		widget.NewCard("Top keywords", "", container.NewStack(state.barImg, barHover)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	refreshBtn := widget.NewButton("Refresh", func() { go refreshNow(ctx, state) })
	darkChk := widget.NewCheck("Dark theme", func(b bool) {
		state.darkMode = b
		applyTheme(state)
		savePrefs(state)
	})
	darkChk.SetChecked(state.darkMode)
	top := container.NewHBox(refreshBtn, darkChk, state.statusLabel)
	w.SetContent(container.NewBorder(container.NewVBox(top, cards), nil, nil, nil, charts))
	buildMenus(ctx, state)

	var task *dashboard.Task
	a.Lifecycle().SetOnStarted(func() {
		task = state.ctrl.Start(ctx, cfg.Interval)
	})

	// Redraw charts on window resize so they scale with width
	done := make(chan struct{})
	w.SetOnClosed(func() {
		savePrefs(state)
		cancel()
		task.Stop()
		state.ctrl.Close()
		close(done)
	})
	go func() {
		prevW := 0
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				cv := w.Canvas()
				if cv == nil {
					continue
				}
				curW := int(cv.Size().Width)
				if curW == 0 || curW == prevW {
					continue
				}
				prevW = curW
				cw, chh := uihelpers.ComputeChartDimensions(curW)
				fyne.Do(func() {
					state.pieImg.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
					state.barImg.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
					state.ctrl.Resize(cw, chh)
				})
			}
		}
	}()

	w.ShowAndRun()
	return nil
}

func refreshNow(ctx context.Context, state *uiState) {
	if err := state.ctrl.Refresh(ctx); err != nil {
		msg := "Refresh failed: " + err.Error()
		fyne.Do(func() { state.statusLabel.SetText(msg) })
	}
}

func buildMenus(ctx context.Context, state *uiState) {
	exportPie := fyne.NewMenuItem("Export Pie Chart…", func() { exportChartPNG(state, chartkit.KindPie, "pie_chart.png") })
	exportBar := fyne.NewMenuItem("Export Bar Chart…", func() { exportChartPNG(state, chartkit.KindBar, "bar_chart.png") })
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Refresh", func() { go refreshNow(ctx, state) }),
		fyne.NewMenuItemSeparator(),
		exportPie,
		exportBar,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

func applyTheme(state *uiState) {
	if state.darkMode {
		state.app.Settings().SetTheme(variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark})
		return
	}
	state.app.Settings().SetTheme(theme.DefaultTheme())
}

// exportChartPNG saves the last frame of a chart, overlays included.
func exportChartPNG(state *uiState, kind chartkit.Kind, name string) {
	ch := state.ctrl.Chart(kind)
	if ch == nil || ch.Canvas() == nil {
		dialog.ShowInformation("Export", "Nothing drawn yet, refresh first.", state.window)
		return
	}
	var frame bytes.Buffer
	if err := png.Encode(&frame, ch.Canvas()); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	save := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		if wc == nil {
			return
		}
		_, err = wc.Write(frame.Bytes())
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			logging.Warnf("[gui] export %s to %s: %v", name, wc.URI(), err)
			dialog.ShowError(err, state.window)
			return
		}
		state.statusLabel.SetText("Saved " + wc.URI().Name())
	}, state.window)
	save.SetFileName(name)
	save.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	save.Show()
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetBool("darkTheme", state.darkMode)
	if state.window != nil && state.window.Canvas() != nil {
		sz := state.window.Canvas().Size()
		if sz.Width > 0 && sz.Height > 0 {
			prefs.SetInt("windowWidth", int(sz.Width))
			prefs.SetInt("windowHeight", int(sz.Height))
		}
	}
}

package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"tiltclock/internal/core/weather"
)

// WeatherView renders the weather card.
type WeatherView struct {
	location    *widget.Label
	icon        *canvas.Text
	temperature *canvas.Text
	description *widget.Label
	extras      map[string]*widget.Label
	extrasBox   *fyne.Container
	content     fyne.CanvasObject
}

var extraTitles = []string{"High", "Low", "UV", "Feels", "Precip"}

// NewWeatherView builds the view showing the loading card.
func NewWeatherView() *WeatherView {
	view := &WeatherView{
		location:    widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		icon:        displayText("", 56),
		temperature: displayText("", 56),
		description: widget.NewLabel(""),
		extras:      map[string]*widget.Label{},
	}
	view.description.Alignment = fyne.TextAlignCenter

	cells := make([]fyne.CanvasObject, 0, len(extraTitles))
	for _, title := range extraTitles {
		value := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		caption := canvas.NewText(title, mutedColor)
		caption.Alignment = fyne.TextAlignCenter
		caption.TextSize = 11
		view.extras[title] = value
		cells = append(cells, container.NewVBox(caption, value))
	}
	view.extrasBox = container.NewGridWithColumns(len(extraTitles), cells...)

	view.content = container.NewVBox(
		view.location,
		container.NewCenter(container.NewHBox(view.icon, view.temperature)),
		view.description,
		view.extrasBox,
	)

	view.Render(weather.LoadingCard())
	return view
}

// Content returns the view's root object.
func (view *WeatherView) Content() fyne.CanvasObject {
	return view.content
}

// Update schedules a repaint from any goroutine.
func (view *WeatherView) Update(card weather.Card) {
	fyne.Do(func() { view.Render(card) })
}

// Render repaints from card. Call on the Fyne goroutine.
func (view *WeatherView) Render(card weather.Card) {
	view.location.SetText(card.Location)
	setText(view.icon, card.Icon)
	temperature := ""
	if card.Available {
		temperature = card.Temperature + "°"
	}
	setText(view.temperature, temperature)
	view.description.SetText(card.Description)

	values := map[string]string{
		"High":   card.High,
		"Low":    card.Low,
		"UV":     card.UV,
		"Feels":  card.FeelsLike,
		"Precip": card.Precip,
	}
	for title, label := range view.extras {
		label.SetText(values[title])
	}
	if card.Available {
		view.extrasBox.Show()
	} else {
		view.extrasBox.Hide()
	}
}

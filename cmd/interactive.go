package cmd

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"nearby-places/internal/calculator"
	"nearby-places/internal/display"
	"nearby-places/internal/models"
)

// Marker step sizes in degrees, selected with +/-.
var steps = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10}

const defaultStep = 3 // 0.5°

var (
	startLat float64
	startLng float64
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Move a marker around and watch the nearest places update",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

func init() {
	interactiveCmd.Flags().Float64Var(&startLat, "lat", 0, "start latitude (default START_LAT)")
	interactiveCmd.Flags().Float64Var(&startLng, "lng", 0, "start longitude (default START_LNG)")
}

type interactiveModel struct {
	ranker   *calculator.Ranker
	places   int
	marker   models.Coordinate
	step     int // index into steps
	results  []models.RankedResult
	quitting bool
}

func newInteractiveModel(ranker *calculator.Ranker, start models.Coordinate) interactiveModel {
	m := interactiveModel{
		ranker: ranker,
		places: len(ranker.Catalog()),
		marker: start,
		step:   defaultStep,
	}
	m.results = ranker.Rank(start)
	return m
}

func (m interactiveModel) Init() tea.Cmd {
	return nil
}

func (m interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	d := steps[m.step]
	switch key.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		m = m.moveTo(m.marker.Latitude+d, m.marker.Longitude)
	case "down", "j":
		m = m.moveTo(m.marker.Latitude-d, m.marker.Longitude)
	case "left", "h":
		m = m.moveTo(m.marker.Latitude, m.marker.Longitude-d)
	case "right", "l":
		m = m.moveTo(m.marker.Latitude, m.marker.Longitude+d)

	case "+", "=":
		if m.step < len(steps)-1 {
			m.step++
		}
	case "-", "_":
		if m.step > 0 {
			m.step--
		}
	}

	return m, nil
}

// moveTo places the marker, clamping latitude at the poles and wrapping
// longitude across the antimeridian, and re-ranks the catalog.
func (m interactiveModel) moveTo(lat, lng float64) interactiveModel {
	m.marker = models.Coordinate{
		Latitude:  math.Max(-90, math.Min(90, lat)),
		Longitude: wrapLongitude(lng),
	}
	m.results = m.ranker.Rank(m.marker)
	return m
}

func wrapLongitude(lng float64) float64 {
	if lng >= -180 && lng <= 180 {
		return lng
	}
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}

func (m interactiveModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF00")).
		Padding(1, 0)

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFF00"))

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Padding(1, 0)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#00FF00")).
		Padding(1, 2)

	info := fmt.Sprintf(
		"Marker: %s\nStep: %g°\nCatalog: %d places",
		display.Coordinate(m.marker.Latitude, m.marker.Longitude),
		steps[m.step],
		m.places,
	)

	var b strings.Builder
	if len(m.results) == 0 {
		b.WriteString("No places to show")
	}
	for i, r := range m.results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %-24s %12s", i+1, r.Point.Name, display.Km(r.DistanceKm))
	}

	controls := `Controls:
  ↑/K ↓/J  - Move North / South
  ←/H →/L  - Move West / East
  +/-      - Change Step
  Q        - Quit`

	return titleStyle.Render("Nearby Places") + "\n" +
		infoStyle.Render(info) + "\n" +
		boxStyle.Render(b.String()) + "\n" +
		helpStyle.Render(controls)
}

func runInteractive(cmd *cobra.Command) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	start := models.Coordinate{Latitude: a.cfg.StartLat, Longitude: a.cfg.StartLng}
	if cmd.Flags().Changed("lat") {
		start.Latitude = startLat
	}
	if cmd.Flags().Changed("lng") {
		start.Longitude = startLng
	}
	if err := calculator.ValidateCoordinate(start); err != nil {
		return fmt.Errorf("start position: %w", err)
	}

	p := tea.NewProgram(newInteractiveModel(a.ranker, start), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive: %w", err)
	}
	return nil
}

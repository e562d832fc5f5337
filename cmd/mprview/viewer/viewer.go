// Package viewer provides the interactive terminal UI: three synchronized
// reconstruction panes over one navigation coordinator. All navigation logic
// lives in internal/nav; this package only translates key events into
// coordinator calls and renders the published view states.
package viewer

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/mprview/internal/config"
	"github.com/mrsinham/mprview/internal/nav"
	"github.com/mrsinham/mprview/internal/volume"
)

// mode distinguishes plain navigation from the inline slice-entry form.
type mode int

const (
	modeNavigate mode = iota
	modeSliceEntry
)

// Viewer is the bubbletea model for the three-pane viewer.
type Viewer struct {
	coord *nav.Coordinator
	cfg   *config.Config

	// Latest published projections, one per axis, written by the
	// coordinator consumers.
	views [3]nav.ViewState

	focused volume.Axis
	mode    mode

	sliceForm  *huh.Form
	sliceInput string

	// lastErr is the most recent recoverable interaction error (an invalid
	// window adjustment); shown in the status bar, cleared on the next
	// successful action.
	lastErr error

	width  int
	height int

	quitting bool
}

// New wires a viewer to the coordinator and delivers the initial
// projections.
func New(coord *nav.Coordinator, cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		coord:   coord,
		cfg:     cfg,
		focused: volume.Axial,
	}
	for _, a := range volume.Axes() {
		axis := a
		coord.RegisterView(axis, func(vs nav.ViewState) {
			v.views[axis] = vs
		})
	}
	if err := coord.Refresh(); err != nil {
		return nil, fmt.Errorf("initial view derivation: %w", err)
	}
	return v, nil
}

// Init implements tea.Model.
func (v *Viewer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		v.width = wsm.Width
		v.height = wsm.Height
	}

	switch v.mode {
	case modeSliceEntry:
		return v.updateSliceEntry(msg)
	default:
		return v.updateNavigate(msg)
	}
}

// updateNavigate handles key events in plain navigation mode.
func (v *Viewer) updateNavigate(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	step := v.cfg.Display.ScrollStep
	if step < 1 {
		step = 1
	}

	switch key.String() {
	case "ctrl+c", "q":
		v.quitting = true
		return v, tea.Quit

	case "tab":
		v.focused = volume.Axes()[(int(v.focused)+1)%3]

	case "pgup", "[":
		v.record(v.coord.Scroll(v.focused, -step))
	case "pgdown", "]":
		v.record(v.coord.Scroll(v.focused, step))

	case "up":
		v.moveCrosshair(-1, 0)
	case "down":
		v.moveCrosshair(1, 0)
	case "left":
		v.moveCrosshair(0, -1)
	case "right":
		v.moveCrosshair(0, 1)

	case "w":
		v.record(v.coord.AdjustWindow(v.windowStep(), 0))
	case "s":
		v.record(v.coord.AdjustWindow(-v.windowStep(), 0))
	case "d":
		v.record(v.coord.AdjustWindow(0, v.windowStep()))
	case "a":
		v.record(v.coord.AdjustWindow(0, -v.windowStep()))

	case "r":
		w := volume.DefaultWindow(v.coord.State().Volume())
		v.record(v.coord.SetWindow(w.Level, w.Width))

	case "g":
		v.openSliceEntry()
		return v, v.sliceForm.Init()
	}

	return v, nil
}

// moveCrosshair commits a one-voxel crosshair move on the focused view.
func (v *Viewer) moveCrosshair(dRow, dCol int) {
	vs := v.views[v.focused]
	_, _, err := v.coord.CrosshairMove(v.focused, vs.CrosshairRow+dRow, vs.CrosshairCol+dCol, true)
	v.record(err)
}

// windowStep scales window adjustments to the volume's intensity range so
// a key press is visible on any modality.
func (v *Viewer) windowStep() float64 {
	min, max := v.coord.State().Volume().IntensityRange()
	step := float64(max-min) / 50
	if step < 1 {
		step = 1
	}
	return step
}

// record keeps the last recoverable error for the status bar.
func (v *Viewer) record(err error) {
	v.lastErr = err
}

// openSliceEntry shows the numeric slice-entry form for the focused axis.
func (v *Viewer) openSliceEntry() {
	v.mode = modeSliceEntry
	v.sliceInput = strconv.Itoa(v.views[v.focused].SliceIndex)

	extent := v.coord.State().Volume().Extent(v.focused)
	v.sliceForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("slice").
				Title(fmt.Sprintf("%s slice (0-%d)", v.focused, extent-1)).
				Value(&v.sliceInput).
				Validate(func(s string) error {
					if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("enter a slice number")
					}
					return nil
				}),
		),
	).WithShowHelp(false)
}

// updateSliceEntry handles the numeric entry form.
func (v *Viewer) updateSliceEntry(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			v.mode = modeNavigate
			return v, nil
		case "ctrl+c":
			v.quitting = true
			return v, tea.Quit
		}
	}

	form, cmd := v.sliceForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.sliceForm = f
	}

	if v.sliceForm.State == huh.StateCompleted {
		// Clamped like any other slice change; out-of-range entries stick
		// to the nearest valid slice.
		index, _ := strconv.Atoi(strings.TrimSpace(v.sliceInput))
		v.record(v.coord.SetSliceNumeric(v.focused, index))
		v.mode = modeNavigate
	}

	return v, cmd
}

// View implements tea.Model.
func (v *Viewer) View() string {
	if v.quitting {
		return ""
	}

	title := titleStyle.Render("mprview")

	paneCols := 30
	paneRows := 18
	if v.width > 100 {
		paneCols = (v.width - 12) / 3
	}
	if v.height > 26 {
		paneRows = v.height - 9
	}

	var panes []string
	for _, a := range volume.Axes() {
		panes = append(panes, v.renderPaneBox(a, paneRows, paneCols))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, panes...)

	var parts []string
	parts = append(parts, title, row, v.statusBar())
	if v.mode == modeSliceEntry {
		parts = append(parts, v.sliceForm.View())
	} else {
		parts = append(parts, helpStyle.Render(
			"tab: focus | [ ]: slice | arrows: crosshair | g: go to slice | w/s: level | a/d: width | r: reset | q: quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderPaneBox wraps one pane in its border with a title line.
func (v *Viewer) renderPaneBox(a volume.Axis, maxRows, maxCols int) string {
	vs := v.views[a]
	label := fmt.Sprintf("%s %d/%d", a, vs.SliceIndex, v.coord.State().Volume().Extent(a)-1)

	style := paneStyle
	titleRender := paneTitleDimStyle
	if a == v.focused {
		style = paneFocusedStyle
		titleRender = paneTitleStyle
	}

	content := titleRender.Render(label) + "\n" + renderPane(vs, maxRows, maxCols)
	return style.Render(content)
}

// statusBar shows the shared cursor, the window and any pending error.
func (v *Viewer) statusBar() string {
	cursor := v.coord.State().Cursor()
	window := v.coord.State().Window()

	status := statusStyle.Render("cursor ") +
		statusValueStyle.Render(fmt.Sprintf("(%d, %d, %d)", cursor.I, cursor.J, cursor.K)) +
		statusStyle.Render("  window ") +
		statusValueStyle.Render(fmt.Sprintf("L%.0f/W%.0f", window.Level, window.Width))

	if v.lastErr != nil {
		status += "  " + errorStyle.Render(v.lastErr.Error())
	}
	return status
}

// Run starts the viewer over a loaded volume.
func Run(coord *nav.Coordinator, cfg *config.Config) error {
	v, err := New(coord, cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(v, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

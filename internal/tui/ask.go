package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/autopm-ai/autopm/internal/core"
	"github.com/autopm-ai/autopm/internal/output"
)

// focus identifies which pane receives key input.
type focus int

const (
	focusQuery focus = iota
	focusFiles
	focusAddPath
	focusResult
)

// resultMsg carries a finished recommendation back into the update loop.
type resultMsg core.Result

// AskOptions configures the interactive session.
type AskOptions struct {
	Orchestrator *core.Orchestrator
	InitialQuery string
	Files        []core.UploadedFile
	SpecOut      string

	// Model prices the token estimate shown while a request runs.
	Model string
}

// AskModel is the Bubble Tea model for the upload-and-ask session.
type AskModel struct {
	orch    *core.Orchestrator
	files   core.FileSet
	specOut string
	model   string

	query    textarea.Model
	addPath  textinput.Model
	spinner  spinner.Model
	result   viewport.Model
	focus    focus
	selected int

	phase    core.Phase
	markdown string
	spec     *core.ProductSpec
	savedTo  string
	err      error

	width  int
	height int
}

// NewAskModel creates the interactive model with any preloaded query and
// files from the command line.
func NewAskModel(opts AskOptions) *AskModel {
	ta := textarea.New()
	ta.Placeholder = "What should we build next? (optional)"
	ta.SetHeight(3)
	ta.SetValue(opts.InitialQuery)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "path/to/file.csv"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	m := &AskModel{
		orch:    opts.Orchestrator,
		specOut: opts.SpecOut,
		model:   opts.Model,
		query:   ta,
		addPath: ti,
		spinner: sp,
		result:  viewport.New(80, 16),
		phase:   core.PhaseIdle,
	}
	m.files.Add(opts.Files...)
	return m
}

// Init implements tea.Model.
func (m *AskModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *AskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.query.SetWidth(msg.Width - 4)
		m.result.Width = msg.Width - 2
		m.result.Height = max(msg.Height-14, 5)
		if m.markdown != "" {
			m.result.SetContent(RenderMarkdown(m.markdown, m.result.Width))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		return m.handleResult(core.Result(msg))
	}

	return m.updateFocused(msg)
}

func (m *AskModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.orch.Close()
		return m, tea.Quit

	case "esc":
		if m.focus == focusAddPath {
			m.addPath.Blur()
			m.addPath.SetValue("")
			m.setFocus(focusFiles)
			return m, nil
		}
		m.orch.Close()
		return m, tea.Quit

	case "tab":
		if m.focus != focusAddPath {
			m.cycleFocus()
			return m, nil
		}

	case "ctrl+s":
		return m, m.submit()
	}

	switch m.focus {
	case focusFiles:
		return m.handleFilesKey(msg)
	case focusAddPath:
		if msg.String() == "enter" {
			return m.addFileFromPath()
		}
	case focusResult:
		if m.spec != nil && msg.String() == "s" {
			return m.saveSpec()
		}
	}

	return m.updateFocused(msg)
}

func (m *AskModel) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < m.files.Len()-1 {
			m.selected++
		}
	case "x", "delete", "backspace":
		if m.files.Remove(m.selected) && m.selected >= m.files.Len() && m.selected > 0 {
			m.selected--
		}
	case "a":
		m.setFocus(focusAddPath)
		m.addPath.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *AskModel) addFileFromPath() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.addPath.Value())
	m.addPath.Blur()
	m.addPath.SetValue("")
	m.setFocus(focusFiles)
	if path == "" {
		return m, nil
	}
	f, err := core.LoadFile(path)
	if err != nil {
		m.err = err
		m.phase = core.PhaseError
		return m, nil
	}
	m.files.Add(f)
	if m.phase == core.PhaseError || m.phase == core.PhaseNeedsFiles {
		m.phase = core.PhaseIdle
		m.err = nil
	}
	return m, nil
}

// submit hands the current query and files to the orchestrator and starts
// waiting for its answer. A newer submit makes this wait a no-op.
func (m *AskModel) submit() tea.Cmd {
	res, done := m.orch.Submit(strings.TrimSpace(m.query.Value()), m.files.Files())
	m.applyResult(res)

	cmds := []tea.Cmd{m.spinner.Tick}
	if done != nil {
		cmds = append(cmds, func() tea.Msg {
			r, ok := <-done
			if !ok {
				return nil
			}
			return resultMsg(r)
		})
	}
	return tea.Batch(cmds...)
}

func (m *AskModel) handleResult(res core.Result) (tea.Model, tea.Cmd) {
	m.applyResult(res)
	if m.phase == core.PhaseSuccess {
		m.setFocus(focusResult)
	}
	return m, nil
}

func (m *AskModel) applyResult(res core.Result) {
	m.phase = res.Phase
	m.err = res.Err
	switch res.Phase {
	case core.PhaseSuccess:
		m.markdown = res.Markdown
		m.spec = core.ExtractSpec(res.Markdown)
		m.savedTo = ""
		m.result.SetContent(RenderMarkdown(res.Markdown, m.result.Width))
		m.result.GotoTop()
	case core.PhaseLoading:
		m.savedTo = ""
	}
}

func (m *AskModel) saveSpec() (tea.Model, tea.Cmd) {
	path := m.specOut
	if path == "" {
		path = "product-spec.md"
	}
	adapter := output.AdapterForPath(path)
	if err := adapter.Write(path, m.spec, m.markdown); err != nil {
		m.err = err
		m.phase = core.PhaseError
		return m, nil
	}
	m.savedTo = path
	return m, nil
}

func (m *AskModel) cycleFocus() {
	order := []focus{focusQuery, focusFiles}
	if m.markdown != "" {
		order = append(order, focusResult)
	}
	for i, f := range order {
		if f == m.focus {
			m.setFocus(order[(i+1)%len(order)])
			return
		}
	}
	m.setFocus(focusQuery)
}

func (m *AskModel) setFocus(f focus) {
	m.focus = f
	if f == focusQuery {
		m.query.Focus()
	} else {
		m.query.Blur()
	}
}

func (m *AskModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusQuery:
		m.query, cmd = m.query.Update(msg)
	case focusAddPath:
		m.addPath, cmd = m.addPath.Update(msg)
	case focusResult:
		m.result, cmd = m.result.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m *AskModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("AutoPM"))
	b.WriteString(HelpStyle.Render("  product recommendations from your own data"))
	b.WriteString("\n\n")

	queryBox := BoxStyle
	if m.focus == focusQuery {
		queryBox = HighlightBoxStyle
	}
	b.WriteString(queryBox.Render(m.query.View()))
	b.WriteString("\n")

	b.WriteString(m.filesView())
	b.WriteString("\n")
	b.WriteString(m.statusView())

	if m.markdown != "" && m.phase == core.PhaseSuccess {
		b.WriteString("\n")
		b.WriteString(m.result.View())
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(m.helpLine()))
	return b.String()
}

func (m *AskModel) filesView() string {
	var b strings.Builder
	title := fmt.Sprintf("Files (%d)", m.files.Len())
	if m.focus == focusFiles {
		b.WriteString(SelectedStyle.Render(title))
	} else {
		b.WriteString(UnselectedStyle.Render(title))
	}
	b.WriteString("\n")

	if m.files.Len() == 0 {
		b.WriteString(UnselectedStyle.Render("  no files yet"))
		b.WriteString("\n")
		return b.String()
	}

	for i := 0; i < m.files.Len(); i++ {
		f := m.files.At(i)
		line := fmt.Sprintf("%s %s", f.Name, FileSizeStyle.Render(FormatBytes(f.Size())))
		if m.focus == focusFiles && i == m.selected {
			b.WriteString(SelectedStyle.Render("› " + line))
		} else {
			b.WriteString(UnselectedStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.focus == focusAddPath {
		b.WriteString("  add: ")
		b.WriteString(m.addPath.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m *AskModel) statusView() string {
	switch m.phase {
	case core.PhaseLoading:
		tokens := EstimateTokens(int(m.files.TotalSize()))
		cost := EstimateCost(m.model, tokens, 0)
		return fmt.Sprintf("%s Analyzing your data... %s\n",
			m.spinner.View(),
			TokenStyle.Render(fmt.Sprintf("~%s tokens (est. %s)", FormatTokens(tokens), FormatCost(cost))))
	case core.PhaseNeedsFiles:
		return WarningStyle.Render("Please upload at least one file") + "\n"
	case core.PhaseError:
		if m.err != nil {
			return ErrorStyle.Render(m.err.Error()) + "\n"
		}
		return ErrorStyle.Render("Failed to get recommendations") + "\n"
	case core.PhaseSuccess:
		var b strings.Builder
		b.WriteString(SuccessStyle.Render("Recommendations ready"))
		if m.spec != nil {
			if m.savedTo != "" {
				b.WriteString(HelpStyle.Render("  spec saved to " + m.savedTo))
			} else {
				b.WriteString(HelpStyle.Render("  press s to save the spec"))
			}
		}
		b.WriteString("\n")
		return b.String()
	}
	return "\n"
}

func (m *AskModel) helpLine() string {
	switch m.focus {
	case focusAddPath:
		return "enter add file • esc cancel"
	case focusFiles:
		return "↑/↓ select • a add • x remove • tab next pane • ctrl+s ask • esc quit"
	case focusResult:
		return "↑/↓ scroll • tab next pane • ctrl+s ask again • esc quit"
	default:
		return "tab next pane • ctrl+s ask • esc quit"
	}
}

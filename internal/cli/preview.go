package cli

import (
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/blocks"
	"github.com/matzehuels/storeblocks/pkg/carousel"
	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/pipeline"
	"github.com/matzehuels/storeblocks/pkg/source"
)

// previewCommand opens a terminal preview of a rendered page.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		file    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "preview [page-id]",
		Short: "Browse a rendered page in the terminal",
		Long: `Browse a rendered page in the terminal.

Blocks are listed on the left and the selected block's text on the right.
Carousels advance on their own at the configured interval; left and right
step through slides and space pauses rotation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			var (
				runner *pipeline.Runner
				page   block.Page
			)
			switch {
			case file != "":
				if page, err = source.ReadPage(file); err != nil {
					return err
				}
				if runner, err = c.newOfflineRunner(ctx, cfg, noCache); err != nil {
					return err
				}
			case len(args) == 1:
				if runner, err = c.newRunner(ctx, cfg, noCache); err != nil {
					return err
				}
				if page, err = runner.Fetch(ctx, pipeline.Options{PageID: args[0]}); err != nil {
					runner.Close()
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidInput, "page id or --file is required")
			}
			defer runner.Close()

			opts := renderDefaults(cfg)
			// Info logs would tear the alternate screen.
			c.Logger.SetLevel(log.WarnLevel)
			m, err := newPreviewModel(ctx, runner, page, opts)
			if err != nil {
				return err
			}

			ref := &programRef{}
			m.send = ref.send
			p := tea.NewProgram(m, tea.WithAltScreen())
			ref.p = p
			final, err := p.Run()
			if fm, ok := final.(previewModel); ok {
				fm.stopTicker()
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "preview a page JSON file instead of fetching")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// programRef lets ticker goroutines reach the program created after the
// model.
type programRef struct {
	p *tea.Program
}

func (r *programRef) send(msg tea.Msg) {
	if r.p != nil {
		r.p.Send(msg)
	}
}

// =============================================================================
// previewModel - Interactive page preview
// =============================================================================

var (
	previewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	previewNormalStyle   = lipgloss.NewStyle().Foreground(colorValue)
	previewDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	previewPaneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
)

type (
	// slideMsg reports an automatic or manual carousel advance.
	slideMsg struct {
		blockID string
		index   int
	}
	// renderedMsg carries a re-rendered block.
	renderedMsg struct {
		index int
		html  template.HTML
		err   error
	}
	focusMsg struct{}
)

type previewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	page   block.Page
	opts   pipeline.Options

	blocks []pipeline.Rendered
	issues []pipeline.Issue
	cursor int
	height int
	width  int

	slides map[string]int
	paused bool
	ticker *carousel.Ticker
	err    error

	send func(tea.Msg)
}

func newPreviewModel(ctx context.Context, runner *pipeline.Runner, page block.Page, opts pipeline.Options) (previewModel, error) {
	opts.Document = false
	res, err := runner.RenderPage(ctx, page, opts)
	if err != nil {
		return previewModel{}, err
	}
	return previewModel{
		ctx:    ctx,
		runner: runner,
		page:   res.Page,
		opts:   opts,
		blocks: res.Blocks,
		issues: res.Issues,
		height: 20,
		width:  100,
		slides: make(map[string]int),
	}, nil
}

func (m previewModel) Init() tea.Cmd {
	return func() tea.Msg { return focusMsg{} }
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.stopTicker()
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.focus()
			}
		case "down", "j":
			if m.cursor < len(m.blocks)-1 {
				m.cursor++
				m.focus()
			}
		case "left", "h":
			return m, m.step(-1)
		case "right", "l":
			return m, m.step(1)
		case " ":
			m.paused = !m.paused
			m.focus()
		}
	case focusMsg:
		m.focus()
	case slideMsg:
		i := m.indexOf(msg.blockID)
		if i < 0 {
			return m, nil
		}
		m.slides[msg.blockID] = msg.index
		return m, m.rerender(i)
	case renderedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.index < len(m.blocks) {
			m.blocks[msg.index].HTML = msg.html
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// focus restarts auto-advance for the selected block. Only carousels with
// more than one slide rotate.
func (m *previewModel) focus() {
	m.stopTicker()
	if m.paused || len(m.blocks) == 0 {
		return
	}
	b := m.blocks[m.cursor]
	n := slideCount(b.HTML)
	if n <= 1 {
		return
	}
	r := carousel.NewRotator(n)
	r.GoTo(m.slides[b.ID])
	id, send := b.ID, m.send
	m.ticker = carousel.NewTicker(r, m.opts.RenderOptions().Interval(), func(idx int) {
		if send != nil {
			send(slideMsg{blockID: id, index: idx})
		}
	})
	m.ticker.Start(m.ctx)
}

func (m *previewModel) stopTicker() {
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
}

// step moves the selected carousel by delta slides, wrapping around, and
// restarts its interval.
func (m *previewModel) step(delta int) tea.Cmd {
	if len(m.blocks) == 0 {
		return nil
	}
	b := m.blocks[m.cursor]
	n := slideCount(b.HTML)
	if n <= 1 {
		return nil
	}
	m.slides[b.ID] = ((m.slides[b.ID]+delta)%n + n) % n
	m.focus()
	return m.rerender(m.cursor)
}

func (m previewModel) indexOf(blockID string) int {
	for i, b := range m.blocks {
		if b.ID == blockID {
			return i
		}
	}
	return -1
}

// rerender renders block i again at its current slide.
func (m previewModel) rerender(i int) tea.Cmd {
	id := m.blocks[i].ID
	opts := m.opts
	opts.Block = id
	opts.Slides = map[string]int{id: m.slides[id]}
	ctx, runner, page := m.ctx, m.runner, m.page
	return func() tea.Msg {
		res, err := runner.RenderPage(ctx, page, opts)
		if err != nil {
			return renderedMsg{index: i, err: err}
		}
		if len(res.Blocks) == 0 {
			return renderedMsg{index: i, err: errors.New(errors.ErrCodeInternal, "block %s rendered nothing", id)}
		}
		return renderedMsg{index: i, html: res.Blocks[0].HTML}
	}
}

func (m previewModel) View() string {
	var b strings.Builder

	title := m.page.Title
	if title == "" {
		title = m.page.ID
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(previewDimStyle.Render("↑/↓ block  ←/→ slide  space pause  q quit"))
	b.WriteString("\n\n")

	if len(m.blocks) == 0 {
		b.WriteString(previewDimStyle.Render("  (no blocks rendered)"))
		b.WriteString("\n")
		return b.String()
	}

	var list strings.Builder
	for i, blk := range m.blocks {
		line := fmt.Sprintf("%s %s", blk.Typename, previewDimStyle.Render(blk.ID))
		if i == m.cursor {
			list.WriteString(previewSelectedStyle.Render("▸ " + line))
		} else {
			list.WriteString(previewNormalStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}

	sel := m.blocks[m.cursor]
	body := blocks.PlainText(sel.HTML)
	if n := slideCount(sel.HTML); n > 1 {
		state := "auto"
		if m.paused {
			state = "paused"
		}
		body = previewDimStyle.Render(fmt.Sprintf("slide %d/%d · %s", m.slides[sel.ID]+1, n, state)) + "\n\n" + body
	}
	paneWidth := m.width - lipgloss.Width(list.String()) - 6
	if paneWidth < 20 {
		paneWidth = 20
	}
	pane := previewPaneStyle.Width(paneWidth).MaxHeight(m.height).Render(strings.TrimRight(body, "\n"))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), " ", pane))
	b.WriteString("\n")
	for _, is := range m.issues {
		b.WriteString(StyleWarning.Render(statusWarning.icon + " " + is.String()))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(statusError.mark.Render(statusError.icon + " " + m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

var slideCountRegex = regexp.MustCompile(`data-count="(\d+)"`)

// slideCount reads the number of slides from a rendered carousel or
// testimonial rotator. Other blocks report 0.
func slideCount(html template.HTML) int {
	m := slideCountRegex.FindStringSubmatch(string(html))
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

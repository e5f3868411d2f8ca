package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"news/aggregator/internal/browse"
	"news/aggregator/internal/domain"
)

type fetchedMsg struct {
	res browse.Result
}

type searchSettledMsg struct {
	gen int
}

type App struct {
	ctx  context.Context
	ctrl *browse.Controller

	searchInput textinput.Model
	spinner     spinner.Model
	debounce    time.Duration
	searchGen   int

	view   browse.View
	notice string
	width  int
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Controller *browse.Controller
	Debounce   time.Duration
}

func NewApp(ctx context.Context, opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search for news..."
	ti.Prompt = "/ "
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	a := &App{
		ctx:         ctx,
		ctrl:        opts.Controller,
		searchInput: ti,
		spinner:     sp,
		debounce:    opts.Debounce,
		width:       80,
	}
	a.searchInput.SetValue(opts.Controller.Preferences().Search)
	a.view = opts.Controller.View()
	return a
}

func Run(ctx context.Context, opts RunOpts) error {
	_, err := tea.NewProgram(NewApp(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.spinner.Tick, a.fetchCmd())
}

// fetchCmd starts a fetch for the current selection. The closure only
// carries the request so a late response cannot overwrite a newer one.
func (a *App) fetchCmd() tea.Cmd {
	req, fetch := a.ctrl.Begin(a.ctx)
	a.view = a.ctrl.View()
	if !fetch {
		return nil
	}
	ctrl := a.ctrl
	return func() tea.Msg {
		return fetchedMsg{res: ctrl.Run(req)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.searchInput.Width = min(60, max(10, msg.Width-4))
		return a, nil

	case fetchedMsg:
		if a.ctrl.Complete(msg.res) {
			a.view = a.ctrl.View()
		}
		return a, nil

	case searchSettledMsg:
		if msg.gen != a.searchGen {
			return a, nil
		}
		return a, a.fetchCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit
	case "tab":
		return a, a.selectCategory(a.view.Category.Next())
	case "shift+tab":
		return a, a.selectCategory(a.view.Category.Prev())
	case "pgdown", "ctrl+n":
		return a, a.afterChange(a.ctrl.NextPage(a.ctx))
	case "pgup", "ctrl+p":
		return a, a.afterChange(a.ctrl.PrevPage(a.ctx))
	}

	var inputCmd tea.Cmd
	a.searchInput, inputCmd = a.searchInput.Update(msg)

	changed, err := a.ctrl.SetSearch(a.ctx, a.searchInput.Value())
	a.setNotice(err)
	if !changed {
		return a, inputCmd
	}
	a.view = a.ctrl.View()

	if a.debounce <= 0 {
		return a, tea.Batch(inputCmd, a.fetchCmd())
	}
	a.searchGen++
	gen := a.searchGen
	settle := tea.Tick(a.debounce, func(time.Time) tea.Msg {
		return searchSettledMsg{gen: gen}
	})
	return a, tea.Batch(inputCmd, settle)
}

func (a *App) selectCategory(c domain.Category) tea.Cmd {
	return a.afterChange(a.ctrl.SelectCategory(a.ctx, c))
}

func (a *App) afterChange(changed bool, err error) tea.Cmd {
	a.setNotice(err)
	if !changed {
		return nil
	}
	// The fetch below already carries the current search term, so a settle
	// tick still in flight must not fetch it again.
	a.searchGen++
	return a.fetchCmd()
}

func (a *App) setNotice(err error) {
	if err != nil {
		a.notice = err.Error()
		return
	}
	a.notice = ""
}

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("News Aggregator"))
	b.WriteString("\n")
	b.WriteString(a.searchInput.View())
	b.WriteString("\n\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")

	switch a.view.Status {
	case browse.StatusError:
		b.WriteString(errorStyle.Render(a.view.Err))
		b.WriteString("\n")
	case browse.StatusLoading, browse.StatusIdle:
		b.WriteString(a.spinner.View() + " Loading news...")
		b.WriteString("\n")
	default:
		b.WriteString(a.renderCards())
		b.WriteString(a.renderPagination())
	}

	if a.notice != "" {
		b.WriteString("\n" + errorStyle.Render(a.notice))
	}
	b.WriteString("\n" + mutedStyle.Render("type to search · tab/shift+tab category · pgup/pgdown page · esc quit"))
	return b.String()
}

func (a *App) renderTabs() string {
	tabs := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		style := tabInactiveStyle
		if c == a.view.Category {
			style = tabActiveStyle
		}
		tabs = append(tabs, style.Render(c.DisplayName()))
	}
	return strings.Join(tabs, " ")
}

func (a *App) renderCards() string {
	if len(a.view.Articles) == 0 {
		return mutedStyle.Render("No articles.") + "\n"
	}

	width := max(20, a.width-4)
	var b strings.Builder
	for _, art := range a.view.Articles {
		lines := []string{cardTitleStyle.Render(art.Title)}
		if art.HasImage() {
			lines = append(lines, mutedStyle.Render("image: "+art.URLToImage))
		}
		lines = append(lines, mutedStyle.Render(art.Source.Name))
		if art.Description != "" {
			lines = append(lines, art.Description)
		}
		lines = append(lines, linkStyle.Render("Read more: ")+art.URL)
		b.WriteString(cardStyle.Width(width).Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderPagination() string {
	prev := buttonDisabledStyle.Render("Previous")
	if a.view.CanPrev {
		prev = buttonStyle.Render("Previous")
	}
	next := buttonDisabledStyle.Render("Next")
	if a.view.CanNext {
		next = buttonStyle.Render("Next")
	}
	return fmt.Sprintf("%s  Page %d  %s\n", prev, a.view.Page, next)
}

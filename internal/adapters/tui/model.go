package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todoboard/internal/counter"
	"todoboard/internal/domain/entities"
	"todoboard/internal/log"
)

type keyMap struct {
	English   key.Binding
	Japanese  key.Binding
	NewTodo   key.Binding
	Increment key.Binding
	Decrement key.Binding
	Quit      key.Binding
	Submit    key.Binding
	Cancel    key.Binding
}

var keys = keyMap{
	English:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "English")),
	Japanese:  key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "日本語")),
	NewTodo:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new todo")),
	Increment: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "increment")),
	Decrement: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "decrement")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Submit:    key.NewBinding(key.WithKeys("enter")),
	Cancel:    key.NewBinding(key.WithKeys("esc")),
}

type subscribedMsg struct{ sub Subscription }

type observeFailedMsg struct{ err error }

type snapshotMsg struct{ items []entities.Todo }

type subscriptionEndedMsg struct{ err error }

type createdMsg struct{ todo *entities.Todo }

type createFailedMsg struct{ err error }

// Model is the root component: language buttons, the live todo list, a
// session counter and the hosted banner.
type Model struct {
	ctx     context.Context
	backend Backend
	lang    Language
	counter *counter.Store

	sub       Subscription
	todos     []entities.Todo
	connected bool
	status    string

	adding bool
	ti     textinput.Model
}

// New returns the root model. The live query opens in Init.
func New(ctx context.Context, backend Backend, lang Language) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0

	store := counter.NewStore()
	store.Subscribe(func(s counter.State) {
		log.Debug().Int("value", s.Value).Msg("counter changed")
	})
	return Model{
		ctx:     ctx,
		backend: backend,
		lang:    lang,
		counter: store,
		ti:      ti,
	}
}

// Todos returns the list as last delivered by the live query.
func (m Model) Todos() []entities.Todo { return m.todos }

// Count returns the session counter value.
func (m Model) Count() int { return m.counter.Value() }

// Close releases the live query, if one is open.
func (m Model) Close() {
	if m.sub != nil {
		m.sub.Close()
	}
}

func (m Model) Init() tea.Cmd {
	return m.observe
}

func (m Model) observe() tea.Msg {
	sub, err := m.backend.Observe(m.ctx)
	if err != nil {
		return observeFailedMsg{err: err}
	}
	return subscribedMsg{sub: sub}
}

func waitForSnapshot(sub Subscription) tea.Cmd {
	return func() tea.Msg {
		items, ok := <-sub.Snapshots()
		if !ok {
			return subscriptionEndedMsg{err: sub.Err()}
		}
		return snapshotMsg{items: items}
	}
}

func (m Model) create(content string) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.backend.Create(m.ctx, content)
		if err != nil {
			return createFailedMsg{err: err}
		}
		return createdMsg{todo: todo}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case subscribedMsg:
		m.sub = msg.sub
		m.connected = true
		m.status = ""
		return m, waitForSnapshot(msg.sub)
	case observeFailedMsg:
		log.Error().Err(msg.err).Msg("observe todos failed")
		m.status = m.lang.TData("app.disconnected", map[string]any{"Error": msg.err.Error()})
		return m, nil
	case snapshotMsg:
		// Each snapshot is the whole list.
		m.todos = msg.items
		return m, waitForSnapshot(m.sub)
	case subscriptionEndedMsg:
		m.connected = false
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("live query ended")
			m.status = m.lang.TData("app.disconnected", map[string]any{"Error": msg.err.Error()})
		}
		return m, nil
	case createdMsg:
		log.Debug().Str("id", msg.todo.ID).Msg("todo created")
		return m, nil
	case createFailedMsg:
		log.Warn().Err(msg.err).Msg("create todo failed")
		m.status = m.lang.TData("error.create_failed", map[string]any{"Error": msg.err.Error()})
		return m, nil
	}

	if m.adding {
		return m.updatePrompt(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, keys.English):
			m.lang.ChangeLanguage("en")
		case key.Matches(msg, keys.Japanese):
			m.lang.ChangeLanguage("ja")
		case key.Matches(msg, keys.Increment):
			m.counter.Dispatch(counter.Increment)
		case key.Matches(msg, keys.Decrement):
			m.counter.Dispatch(counter.Decrement)
		case key.Matches(msg, keys.NewTodo):
			m.adding = true
			m.status = ""
			m.ti.SetValue("")
			m.ti.Placeholder = m.lang.T("todos.prompt")
			return m, m.ti.Focus()
		}
	}
	return m, nil
}

// updatePrompt handles input while the new-todo prompt is open. Enter
// submits the content as typed, including empty; esc cancels.
func (m Model) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Submit):
			content := m.ti.Value()
			m.adding = false
			m.ti.SetValue("")
			m.ti.Blur()
			return m, m.create(content)
		case key.Matches(msg, keys.Cancel):
			m.adding = false
			m.ti.SetValue("")
			m.ti.Blur()
			return m, nil
		case msg.Type == tea.KeyCtrlC:
			m.Close()
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	for _, code := range m.lang.Languages() {
		label := m.lang.T("language." + code)
		if code == m.lang.Language() {
			b.WriteString(activeLangStyle.Render(label))
		} else {
			b.WriteString(inactiveLangStyle.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render(m.lang.T("welcome")) + "\n")
	b.WriteString(m.lang.T("description.part1") + "\n")
	b.WriteString(m.lang.T("description.part2") + "\n\n")

	b.WriteString(headingStyle.Render(m.lang.T("todos.heading")))
	b.WriteString("  " + accentStyle.Render("[n] "+m.lang.T("todos.new")) + "\n")
	switch {
	case !m.connected && m.todos == nil && m.status == "":
		b.WriteString(mutedStyle.Render(m.lang.T("app.connecting")) + "\n")
	case len(m.todos) == 0:
		b.WriteString(mutedStyle.Render(m.lang.T("todos.empty")) + "\n")
	default:
		for _, todo := range m.todos {
			b.WriteString("  • " + todo.Content + "\n")
		}
		b.WriteString(mutedStyle.Render(m.lang.TData("todos.count", map[string]any{"Count": len(m.todos)})) + "\n")
	}

	if m.adding {
		b.WriteString(promptString(m.lang.T("todos.prompt"), m.ti.View()) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(accentStyle.Render("[-] "+m.lang.T("counter.decrement")) + "  ")
	b.WriteString(m.lang.TData("counter.label", map[string]any{"Value": m.counter.Value()}))
	b.WriteString("  " + accentStyle.Render("[+] "+m.lang.T("counter.increment")) + "\n\n")

	b.WriteString(successStyle.Render(m.lang.T("app.hosted")) + "\n")
	b.WriteString(mutedStyle.Render(m.lang.T("app.next_step")+" "+m.lang.T("app.next_step_url")) + "\n")
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render(m.lang.T("app.help")))

	return panelString(b.String())
}

// Run starts the UI and blocks until the user quits. The live query is
// released on exit.
func Run(ctx context.Context, backend Backend, lang Language) error {
	p := tea.NewProgram(New(ctx, backend, lang), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	}
	return err
}

package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flickcards/flick/internal/api"
	"github.com/flickcards/flick/internal/auth"
	"github.com/flickcards/flick/internal/notify"
	"github.com/flickcards/flick/internal/practice"
	"github.com/flickcards/flick/internal/prefs"
	"github.com/flickcards/flick/internal/store"
)

// Options configure the UI runtime.
type Options struct {
	Context   context.Context
	Session   *auth.Manager
	Decks     *store.DeckStore
	Cards     *store.CardStore
	Practice  *store.PracticeStore
	Languages *store.LanguageStore
	Notifier  *notify.Notifier
	Prefs     prefs.Prefs
	PrefsPath string
}

type screen int

const (
	screenLogin screen = iota
	screenDecks
	screenDeckDetail
	screenPractice
)

const toastLifetime = 4 * time.Second

// Messages pushed into the program, mostly from store subscriptions.
type (
	decksChangedMsg     []api.Deck
	deckRefreshedMsg    struct{ deck *api.Deck }
	cardsChangedMsg     []api.Card
	dueChangedMsg       []api.Card
	languagesChangedMsg []api.Language
	userChangedMsg      struct{ user *auth.User }
	toastMsg            notify.Toast
	toastExpiredMsg     struct{}
	loginResultMsg      struct{ ok bool }
	practiceStartedMsg  struct{ ok bool }
	advancedMsg         struct{}
	sessionFinishedMsg  struct{}
	translationMsg      struct{ match *api.Translation }
)

// Run wires the model to the stores and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Session == nil || opts.Decks == nil || opts.Cards == nil ||
		opts.Practice == nil || opts.Languages == nil || opts.Notifier == nil {
		return fmt.Errorf("ui requires session, stores and notifier")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	model := newModel(opts)
	p := tea.NewProgram(&model, tea.WithAltScreen(), tea.WithContext(opts.Context))

	// Store subscriptions feed the program; every successful fetch or
	// mutation re-renders from the snapshot delivered here.
	deckSub := opts.Decks.Subscribe(func(items []api.Deck) { p.Send(decksChangedMsg(items)) })
	defer opts.Decks.Unsubscribe(deckSub)
	cardSub := opts.Cards.Subscribe(func(items []api.Card) { p.Send(cardsChangedMsg(items)) })
	defer opts.Cards.Unsubscribe(cardSub)
	dueSub := opts.Practice.Subscribe(func(items []api.Card) { p.Send(dueChangedMsg(items)) })
	defer opts.Practice.Unsubscribe(dueSub)
	langSub := opts.Languages.Subscribe(func(items []api.Language) { p.Send(languagesChangedMsg(items)) })
	defer opts.Languages.Unsubscribe(langSub)
	toastSub := opts.Notifier.Subscribe(func(t notify.Toast) { p.Send(toastMsg(t)) })
	defer opts.Notifier.Unsubscribe(toastSub)
	userSub := opts.Session.Subscribe(func(u *auth.User) { p.Send(userChangedMsg{user: u}) })
	defer opts.Session.Unsubscribe(userSub)

	model.newSession = func(cards []api.Card) *practice.Session {
		return practice.New(opts.Practice, cards, func() {
			p.Send(sessionFinishedMsg{})
		})
	}

	_, err := p.Run()
	return err
}

// Model is the root Bubble Tea model.
type Model struct {
	opts   Options
	keys   keyMap
	theme  Theme
	styles Styles

	width  int
	height int

	screen    screen
	login     loginModel
	deckList  deckListModel
	detail    deckDetailModel
	prac      practiceModel
	languages []api.Language

	user  *auth.User
	toast *notify.Toast

	newSession func([]api.Card) *practice.Session
}

func newModel(opts Options) Model {
	theme := themeByName(opts.Prefs.Theme)
	m := Model{
		opts:     opts,
		keys:     defaultKeyMap(),
		theme:    theme,
		styles:   theme.Styles(),
		login:    newLoginModel(),
		deckList: newDeckListModel(opts.Prefs.LastDeckID),
		user:     opts.Session.User(),
	}
	if opts.Session.Authenticated() {
		m.screen = screenDecks
	} else {
		m.screen = screenLogin
	}
	return m
}

// Init kicks off the initial fetches when a session was restored.
func (m *Model) Init() tea.Cmd {
	if m.screen != screenDecks {
		return nil
	}
	return tea.Batch(m.fetchDecksCmd(), m.fetchLanguagesCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case toastMsg:
		toast := notify.Toast(msg)
		m.toast = &toast
		return m, tea.Tick(toastLifetime, func(time.Time) tea.Msg { return toastExpiredMsg{} })

	case toastExpiredMsg:
		m.toast = nil
		return m, nil

	case userChangedMsg:
		m.user = msg.user
		if msg.user == nil && m.screen != screenLogin {
			// Logout or refresh failure drops the UI back on the login form.
			m.login = newLoginModel()
			m.screen = screenLogin
		}
		return m, nil

	case languagesChangedMsg:
		m.languages = msg
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	return m.updateScreen(msg)
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case keyMatches(msg, m.keys.Quit):
		m.savePrefs()
		return tea.Quit, true
	case keyMatches(msg, m.keys.CycleTheme):
		m.theme = nextTheme(m.theme.Name)
		m.styles = m.theme.Styles()
		return nil, true
	case keyMatches(msg, m.keys.Logout):
		if m.screen != screenLogin {
			m.opts.Session.Logout()
			return nil, true
		}
	}
	return nil, false
}

func (m *Model) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenDecks:
		return m.updateDeckList(msg)
	case screenDeckDetail:
		return m.updateDeckDetail(msg)
	case screenPractice:
		return m.updatePractice(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenLogin:
		body = m.viewLogin()
	case screenDecks:
		body = m.viewDeckList()
	case screenDeckDetail:
		body = m.viewDeckDetail()
	case screenPractice:
		body = m.viewPractice()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(), body, m.viewStatusBar())
}

func (m *Model) viewHeader() string {
	title := m.styles.Title.Render("flick")
	who := ""
	if m.user != nil {
		who = m.styles.Muted.Render("  " + m.user.Username)
	}
	return title + who
}

func (m *Model) viewStatusBar() string {
	if m.toast != nil {
		style := m.styles.Success
		if m.toast.Level == notify.LevelError {
			style = m.styles.Danger
		}
		return style.Render(m.toast.Message)
	}
	return m.styles.StatusBar.Render(m.screenHints())
}

func (m *Model) screenHints() string {
	switch m.screen {
	case screenLogin:
		return "enter confirm · tab next field · ctrl+r login/register · ctrl+c quit"
	case screenDecks:
		return "enter open · n new · r rename · d delete · p practice · ctrl+l log out"
	case screenDeckDetail:
		return "n new · e edit · d delete · ctrl+y translate · esc back"
	case screenPractice:
		return "space flip · → remembered · ← forgot · esc stop"
	}
	return ""
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{
		Theme:      m.theme.Name,
		LastDeckID: m.deckList.lastDeckID,
	}
	_ = prefs.Save(m.opts.PrefsPath, p)
}

// Commands. Each runs a store method on a background goroutine; the store's
// subscription delivers the resulting snapshot.

func (m *Model) fetchDecksCmd() tea.Cmd {
	ctx, decks := m.opts.Context, m.opts.Decks
	return func() tea.Msg {
		decks.FetchAll(ctx)
		return nil
	}
}

func (m *Model) fetchLanguagesCmd() tea.Cmd {
	ctx, languages := m.opts.Context, m.opts.Languages
	return func() tea.Msg {
		languages.FetchAll(ctx)
		return nil
	}
}

func (m *Model) fetchCardsCmd(deckID int64) tea.Cmd {
	ctx, cards := m.opts.Context, m.opts.Cards
	return func() tea.Msg {
		cards.FetchAll(ctx, deckID)
		return nil
	}
}

func (m *Model) startPracticeCmd(deckID int64) tea.Cmd {
	ctx, due := m.opts.Context, m.opts.Practice
	return func() tea.Msg {
		return practiceStartedMsg{ok: due.FetchDue(ctx, deckID)}
	}
}

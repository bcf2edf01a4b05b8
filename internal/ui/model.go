package ui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/connect4-client/internal/entity"
	"github.com/rocketscienceinc/connect4-client/internal/protocol"
	"github.com/rocketscienceinc/connect4-client/internal/session"
)

// Connection is the live link the model reads frames from and sends intents to.
type Connection interface {
	session.Sender
	Frames() <-chan protocol.Frame
	Err() error
	Close() error
}

// Dialer opens a fresh connection to the authority.
type Dialer func(ctx context.Context) (Connection, error)

type RankingFetcher interface {
	Leaderboard(ctx context.Context) ([]entity.LeaderboardEntry, error)
}

type Journal interface {
	Record(ctx context.Context, record *entity.MatchRecord) error
}

// Model is the bubbletea program state. Update is the only place the session
// is mutated, which serialises every transition on the program's event loop.
type Model struct {
	ctx    context.Context
	logger *slog.Logger

	session *session.Session
	conn    Connection
	dial    Dialer
	ranking RankingFetcher
	journal Journal

	input    textinput.Model
	column   int
	quitting bool
}

// New - journal may be nil.
func New(ctx context.Context, logger *slog.Logger, sess *session.Session, dial Dialer, ranking RankingFetcher, journal Journal) *Model {
	input := textinput.New()
	input.Placeholder = "Enter Username"
	input.CharLimit = 32
	input.Focus()

	return &Model{
		ctx:     ctx,
		logger:  logger.With("component", "ui"),
		session: sess,
		dial:    dial,
		ranking: ranking,
		journal: journal,
		input:   input,
		column:  entity.Cols / 2,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, dialCmd(m.ctx, m.dial))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case connectedMsg:
		if m.quitting {
			_ = msg.conn.Close()
			return m, nil
		}
		m.conn = msg.conn
		m.session.Attach(msg.conn)
		return m, waitForFrame(msg.conn)

	case dialFailedMsg:
		m.session.ConnectionLost(msg.err)
		return m, nil

	case frameMsg:
		if msg.conn != m.conn {
			return m, nil
		}
		return m, tea.Batch(m.applyFrame(msg.frame), waitForFrame(msg.conn))

	case connClosedMsg:
		if msg.conn != m.conn {
			return m, nil
		}
		m.dropConnection()
		m.session.ConnectionLost(msg.err)
		return m, nil

	case leaderboardMsg:
		if msg.err != nil {
			m.session.LeaderboardFailed(msg.token, msg.err)
		} else {
			m.session.LeaderboardLoaded(msg.token, msg.entries)
		}
		return m, nil

	case journalMsg:
		if msg.err != nil {
			m.logger.Error("failed to record match", "error", msg.err)
		}
		return m, nil
	}

	if _, ok := m.session.View().(session.Login); ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch view := m.session.View().(type) {
	case session.Login:
		switch msg.Type {
		case tea.KeyEnter:
			if m.session.Join(m.ctx, m.input.Value()) {
				m.input.Blur()
			}
			return m, nil
		case tea.KeyCtrlL:
			return m, m.fetchLeaderboard()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

	case session.Matching:
		if msg.String() == "q" {
			return m.quit()
		}

	case session.Game:
		m.handleGameKey(msg, view)

	case session.GameOver:
		switch msg.String() {
		case "p":
			return m, m.playAgain()
		case "l":
			return m, m.fetchLeaderboard()
		case "q":
			return m.quit()
		}

	case session.Leaderboard:
		switch msg.String() {
		case "b", "esc", "backspace":
			m.session.Back()
			if _, ok := m.session.View().(session.Login); ok {
				return m, m.input.Focus()
			}
		case "q":
			return m.quit()
		}
	}

	return m, nil
}

func (m *Model) handleGameKey(msg tea.KeyMsg, view session.Game) {
	key := msg.String()

	switch key {
	case "left", "h":
		if m.column > 0 {
			m.column--
		}
	case "right", "l":
		if m.column < entity.Cols-1 {
			m.column++
		}
	case "enter", " ":
		m.session.SubmitMove(m.ctx, m.column)
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			column := int(key[0] - '0')
			if entity.ValidColumn(column) && view.Info.IsMyTurn {
				m.column = column
			}
			m.session.SubmitMove(m.ctx, column)
		}
	}
}

func (m *Model) applyFrame(frame protocol.Frame) tea.Cmd {
	_, wasPlaying := m.session.View().(session.Game)

	m.session.HandleFrame(frame)

	switch view := m.session.View().(type) {
	case session.Game:
		if _, ok := frame.(protocol.Start); ok {
			m.column = entity.Cols / 2
			m.input.Blur()
		}
	case session.GameOver:
		if wasPlaying {
			return recordCmd(m.ctx, m.journal, view)
		}
	}

	return nil
}

func (m *Model) fetchLeaderboard() tea.Cmd {
	token, ok := m.session.RequestLeaderboard()
	if !ok {
		return nil
	}

	return fetchLeaderboardCmd(m.ctx, m.ranking, token)
}

// playAgain drops the old connection and dials a fresh one, like a page reload.
func (m *Model) playAgain() tea.Cmd {
	if !m.session.PlayAgain() {
		return nil
	}

	m.dropConnection()
	m.input.Reset()

	return tea.Batch(m.input.Focus(), dialCmd(m.ctx, m.dial))
}

func (m *Model) dropConnection() {
	if m.conn == nil {
		return
	}

	if err := m.conn.Close(); err != nil {
		m.logger.Error("failed to close connection", "error", err)
	}

	m.conn = nil
	m.session.Attach(nil)
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.dropConnection()

	return m, tea.Quit
}

// Close - releases the connection once the program has stopped.
func (m *Model) Close() {
	m.dropConnection()
}

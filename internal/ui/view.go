package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/connect4-client/internal/entity"
	"github.com/rocketscienceinc/connect4-client/internal/session"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C")).Bold(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	oneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	twoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Bold(true)
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true)
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const title = "Connect Four"

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var body string

	switch view := m.session.View().(type) {
	case session.Login:
		body = m.renderLogin()
	case session.Matching:
		body = renderMatching(view)
	case session.Game:
		body = m.renderGame(view)
	case session.GameOver:
		body = renderGameOver(view)
	case session.Leaderboard:
		body = renderLeaderboard(view)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(body)

	if notice := m.session.Notice(); notice != "" {
		b.WriteString("\n\n")
		b.WriteString(noticeStyle.Render(notice))
	}

	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderLogin() string {
	return m.input.View() + "\n\n" +
		helpStyle.Render("enter: join game • ctrl+l: leaderboard • ctrl+c: quit")
}

func renderMatching(view session.Matching) string {
	return fmt.Sprintf("Waiting for an opponent, %s...", view.Username) + "\n\n" +
		helpStyle.Render("q: quit")
}

func (m *Model) renderGame(view session.Game) string {
	var b strings.Builder

	b.WriteString(playerLine(view.Info))
	b.WriteString("\n")

	if view.Info.IsMyTurn {
		b.WriteString(bannerStyle.Render("Your turn"))
	} else {
		b.WriteString("Opponent's turn")
	}

	b.WriteString("\n\n")

	cursor := -1
	if view.Info.IsMyTurn {
		cursor = m.column
	}
	b.WriteString(renderBoard(view.Board, cursor, nil))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("0-6 or ←/→ + enter: drop disc • ctrl+c: quit"))

	return b.String()
}

func renderGameOver(view session.GameOver) string {
	var b strings.Builder

	b.WriteString(playerLine(view.Info))
	b.WriteString("\n")
	b.WriteString(bannerStyle.Render(outcome(view)))
	b.WriteString("\n\n")
	b.WriteString(renderBoard(view.Board, -1, view.WinLines))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("p: play again • l: leaderboard • q: quit"))

	return b.String()
}

func renderLeaderboard(view session.Leaderboard) string {
	var b strings.Builder

	b.WriteString(bannerStyle.Render("Leaderboard"))
	b.WriteString("\n\n")

	if len(view.Entries) == 0 {
		b.WriteString("No games played yet")
	} else {
		rows := make([]string, 0, len(view.Entries))
		for i, entry := range view.Entries {
			rows = append(rows, fmt.Sprintf("#%-3d %-20s %d wins", i+1, entry.Username, entry.Wins))
		}
		b.WriteString(frameStyle.Render(strings.Join(rows, "\n")))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("b/esc: back • q: quit"))

	return b.String()
}

func playerLine(info entity.GameInfo) string {
	return fmt.Sprintf("You are Player %d vs %s", info.Symbol, info.Opponent)
}

func outcome(view session.GameOver) string {
	switch {
	case entity.IsDraw(view.Winner):
		return "Game Over: it's a draw"
	case view.Winner == view.Username:
		return "Game Over: you won!"
	default:
		return fmt.Sprintf("Game Over: %s won", view.Winner)
	}
}

// renderBoard draws the grid top row first. cursor < 0 hides the column marker.
// Discs listed in winning are highlighted.
func renderBoard(board entity.Board, cursor int, winning []entity.Position) string {
	highlight := make(map[entity.Position]bool, len(winning))
	for _, position := range winning {
		highlight[position] = true
	}

	var b strings.Builder

	for c := 0; c < entity.Cols; c++ {
		label := fmt.Sprintf(" %d ", c)
		if c == cursor {
			label = cursorStyle.Render(" v ")
		}
		b.WriteString(label)
	}
	b.WriteString("\n")

	rows := make([]string, 0, entity.Rows)
	for r := 0; r < entity.Rows; r++ {
		var row strings.Builder
		for c := 0; c < entity.Cols; c++ {
			if highlight[entity.Position{Row: r, Col: c}] {
				row.WriteString(winStyle.Render(" ◆ "))
				continue
			}
			row.WriteString(renderCell(board[r][c]))
		}
		rows = append(rows, row.String())
	}

	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n")

	return b.String()
}

func renderCell(cell entity.Cell) string {
	switch cell {
	case entity.PlayerOne:
		return oneStyle.Render(" ● ")
	case entity.PlayerTwo:
		return twoStyle.Render(" ● ")
	default:
		return emptyStyle.Render(" · ")
	}
}

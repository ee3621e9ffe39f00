// Package tui предоставляет терминальный чат-интерфейс ассистента.
//
// Port & Adapter:
//   - pkg/events — Port (интерфейсы событий)
//   - pkg/tui — Adapter (Bubble Tea UI поверх подписчика)
//
// UI не знает про агента: он читает события из events.Subscriber и
// передаёт пользовательский ввод через callback.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lazizkhan1/Easify/pkg/events"
)

// EventMsg оборачивает events.Event в Bubble Tea сообщение.
type EventMsg events.Event

// waitForEvent возвращает Cmd, читающий следующее событие из подписчика.
//
// Закрытие канала завершает программу.
func waitForEvent(sub events.Subscriber) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub.Events()
		if !ok {
			return tea.QuitMsg{}
		}
		return EventMsg(event)
	}
}

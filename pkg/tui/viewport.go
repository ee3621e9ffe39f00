package tui

import "github.com/charmbracelet/bubbles/viewport"

// atBottom сообщает находится ли пользователь в нижней позиции viewport.
func atBottom(vp viewport.Model) bool {
	return vp.YOffset+vp.Height >= vp.TotalLineCount()
}

// setContentKeepScroll обновляет контент viewport, сохраняя позицию
// пользователя: автоскролл вниз срабатывает только если пользователь
// уже был внизу, просмотр истории не прыгает от новых сообщений.
func setContentKeepScroll(vp *viewport.Model, content string) {
	wasAtBottom := atBottom(*vp)
	vp.SetContent(content)
	if wasAtBottom {
		vp.GotoBottom()
	}
}

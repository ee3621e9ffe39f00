package main

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/Lazizkhan1/Easify/pkg/state"
)

func TestSplitMessageShortTextUntouched(t *testing.T) {
	chunks := splitMessage("короткий ответ", maxMessageLen)
	if len(chunks) != 1 || chunks[0] != "короткий ответ" {
		t.Errorf("chunks = %v", chunks)
	}
}

func TestSplitMessagePrefersLineBreaks(t *testing.T) {
	text := strings.Repeat("строка заказа\n", 50)
	chunks := splitMessage(text, 100)

	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("часть %d длиннее лимита: %d", i, len(chunk))
		}
	}
	// Склейка частей содержит все строки
	joined := strings.Join(chunks, "\n")
	if strings.Count(joined, "строка заказа") != 50 {
		t.Errorf("потеряны строки при разбиении")
	}
}

func TestSplitMessageNoLineBreaks(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := splitMessage(text, 100)

	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, ожидалось 3", len(chunks))
	}
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	if total != 250 {
		t.Errorf("суммарная длина = %d", total)
	}
}

func TestLocalizedTextFallsBackToEnglish(t *testing.T) {
	if got := t9("de", "greeting"); !strings.Contains(got, "Asil") {
		t.Errorf("фолбэк на английский не сработал: %q", got)
	}
	if got := t9("uz", "login_ok"); !strings.Contains(got, "Rahmat") {
		t.Errorf("узбекский текст: %q", got)
	}
}

// t9 — обёртка чтобы не конфликтовать с *testing.T в имени.
func t9(lang, key string) string { return t(lang, key) }

func TestSplitMessageKeepsRunesIntact(t *testing.T) {
	// Кириллица без переносов: разрез на лимите попадает в середину руны
	text := "a" + strings.Repeat("ц", 2500)
	chunks := splitMessage(text, maxMessageLen)

	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, ожидалось минимум 2", len(chunks))
	}
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("часть %d содержит невалидный UTF-8", i)
		}
		if len(chunk) > maxMessageLen {
			t.Errorf("часть %d длиннее лимита: %d байт", i, len(chunk))
		}
	}
	if strings.Join(chunks, "") != text {
		t.Error("при разбиении потерялись символы")
	}
}

func TestAwaitingCredsGuardedByMutex(t *testing.T) {
	b := &bot{chats: make(map[int64]*chatState)}
	cs := &chatState{sess: state.NewSession("telegram_test")}
	b.chats[1] = cs

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.setAwaitingCreds(cs, true)
		}()
		go func() {
			defer wg.Done()
			_ = b.isAwaitingCreds(cs)
		}()
	}
	wg.Wait()

	if !b.isAwaitingCreds(cs) {
		t.Error("флаг ожидания кредов потерян")
	}
}

// Терминальный чат-клиент ассистента Easify на Bubble Tea.
//
// Подписывается на события агента и показывает вызовы инструментов
// по мере выполнения. Логин в OyGul выполняется на старте по кредам
// из config.yaml.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Lazizkhan1/Easify/pkg/app"
	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/events"
	"github.com/Lazizkhan1/Easify/pkg/tui"
	"github.com/Lazizkhan1/Easify/pkg/utils"
)

const sessionKey = "tui"

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	scheme := flag.String("scheme", "default", "цветовая схема (default, dark)")
	flag.Parse()

	if err := run(*configPath, *scheme); err != nil {
		fmt.Fprintf(os.Stderr, "easify-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, scheme string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := app.Initialize(ctx, cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	sess, err := components.LoginSession(ctx, sessionKey)
	if err != nil {
		return err
	}

	emitter := events.NewChanEmitter(100)
	components.Agent.SetEmitter(emitter)
	defer emitter.Close()

	chat := tui.NewChat(emitter.Subscribe(), tui.ChatConfig{
		Title:         "Easify",
		ModelName:     cfg.Models.DefaultChat,
		Scheme:        scheme,
		ShowTimestamp: true,
	})

	chat.OnInput(func(input string) {
		// Результат придёт в чат событием EventDone или EventError
		if _, err := components.Agent.Run(ctx, sess, input); err != nil {
			utils.Error("Agent run failed", "error", err)
			return
		}
		components.SaveSession(sess)
	})

	if err := chat.Run(); err != nil {
		return err
	}

	components.SaveSession(sess)
	return nil
}

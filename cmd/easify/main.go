// Консольный клиент ассистента Easify.
//
// Читает запросы построчно из stdin, печатает ход выполнения
// (вызовы инструментов) и финальный ответ. Логин в OyGul выполняется
// на старте по кредам из config.yaml.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Lazizkhan1/Easify/pkg/app"
	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/events"
	"github.com/Lazizkhan1/Easify/pkg/utils"
)

const sessionKey = "console"

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "easify: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Initialize(ctx, cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	sess, err := components.LoginSession(ctx, sessionKey)
	if err != nil {
		return err
	}

	// События инструментов печатаем по мере выполнения
	emitter := events.NewChanEmitter(100)
	components.Agent.SetEmitter(emitter)
	sub := emitter.Subscribe()
	go printEvents(sub)
	defer emitter.Close()

	fmt.Println("Easify — ассистент флауэршопа OyGul. Напишите запрос, 'exit' для выхода.")
	if !sess.Authorized() {
		fmt.Println("Внимание: креды OyGul не настроены, доступен только поиск по ленте.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break // EOF или Ctrl+D
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		answer, err := components.Agent.Run(ctx, sess, input)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Printf("Ошибка: %v\n", err)
			continue
		}
		fmt.Println(answer)

		components.SaveSession(sess)
	}

	components.SaveSession(sess)
	utils.Info("Console session finished", "session", sessionKey)
	return scanner.Err()
}

// printEvents печатает промежуточные события агента.
func printEvents(sub events.Subscriber) {
	for event := range sub.Events() {
		switch data := event.Data.(type) {
		case events.ToolCallData:
			fmt.Printf("  ⚙ %s\n", data.ToolName)
		case events.ToolResultData:
			mark := "✓"
			if data.IsError {
				mark = "✗"
			}
			fmt.Printf("  %s %s (%dms)\n", mark, data.ToolName, data.Duration.Milliseconds())
		}
	}
}

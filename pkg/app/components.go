// Package app предоставляет переиспользуемую инициализацию компонентов
// ассистента для разных входных точек (консоль, TUI, телеграм).
//
// Весь init код в одном месте: конфиг, модели, OyGul клиент, хранилище
// фото, реестр инструментов, хранилище сессий и сам агент.
package app

import (
	"context"
	"fmt"

	"github.com/Lazizkhan1/Easify/pkg/agent"
	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/models"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
	"github.com/Lazizkhan1/Easify/pkg/photos"
	"github.com/Lazizkhan1/Easify/pkg/state"
	"github.com/Lazizkhan1/Easify/pkg/tools"
	"github.com/Lazizkhan1/Easify/pkg/tools/std"
	"github.com/Lazizkhan1/Easify/pkg/utils"
)

// Components — все компоненты приложения.
//
// Структура переиспользуется входными точками, чтобы консоль, TUI и
// телеграм-бот не дублировали код инициализации.
type Components struct {
	Config *config.AppConfig
	Models *models.Registry
	Tools  *tools.Registry
	OyGul  *oygul.Client
	Photos photos.Uploader // nil если хранилище не настроено
	Store  *state.Store    // nil если sessions.path не задан
	Agent  *agent.Client
}

// Initialize собирает все компоненты по конфигурации.
//
// Алгоритм:
//  1. Реестр моделей из definitions
//  2. OyGul клиент
//  3. Хранилище фото (опционально)
//  4. Реестр инструментов
//  5. Хранилище сессий (опционально)
//  6. Агент "Asil" с моделью по умолчанию
func Initialize(ctx context.Context, cfg *config.AppConfig) (*Components, error) {
	modelRegistry, err := models.NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build model registry: %w", err)
	}

	oygulClient, err := oygul.NewFromConfig(cfg.OyGul)
	if err != nil {
		return nil, fmt.Errorf("failed to create oygul client: %w", err)
	}

	var uploader photos.Uploader
	if cfg.Photos.Endpoint != "" {
		client, err := photos.New(cfg.Photos)
		if err != nil {
			return nil, fmt.Errorf("failed to create photo storage: %w", err)
		}
		uploader = client
		utils.Info("Photo storage configured", "endpoint", cfg.Photos.Endpoint, "bucket", cfg.Photos.Bucket)
	} else {
		utils.Info("Photo storage not configured, upload_photo disabled")
	}

	registry := tools.NewRegistry()
	if err := std.RegisterAll(registry, std.Deps{Client: oygulClient, Photos: uploader}, cfg); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	utils.Info("Tools registered", "count", len(registry.Names()))

	var store *state.Store
	if cfg.Sessions.Path != "" {
		store, err = state.OpenStore(cfg.Sessions.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
		utils.Info("Session store opened", "path", cfg.Sessions.Path)
	}

	provider, _, modelName, err := modelRegistry.GetWithFallback("", cfg.Models.DefaultChat)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve chat model: %w", err)
	}
	utils.Info("Chat model resolved", "model", modelName)

	client := agent.New(provider, registry, cfg, agent.Root())

	return &Components{
		Config: cfg,
		Models: modelRegistry,
		Tools:  registry,
		OyGul:  oygulClient,
		Photos: uploader,
		Store:  store,
		Agent:  client,
	}, nil
}

// Close освобождает ресурсы компонентов.
func (c *Components) Close() error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

// LoginSession авторизует сессию по кредам из конфига.
//
// Сессия с ключом key берётся из хранилища если есть, иначе создаётся.
// Логин выполняется только когда сессия ещё не авторизована.
func (c *Components) LoginSession(ctx context.Context, key string) (*state.Session, error) {
	var sess *state.Session
	if c.Store != nil {
		loaded, err := c.Store.Load(key)
		if err != nil {
			return nil, fmt.Errorf("failed to load session '%s': %w", key, err)
		}
		sess = loaded
	}
	if sess == nil {
		sess = state.NewSession(key)
	}

	if sess.Authorized() {
		return sess, nil
	}
	if c.Config.OyGul.Login == "" || c.Config.OyGul.Password == "" {
		utils.Warn("OyGul credentials not configured, session stays unauthorized", "session", key)
		return sess, nil
	}

	creds, err := c.OyGul.Login(ctx, c.Config.OyGul.Login, c.Config.OyGul.Password)
	if err != nil {
		return nil, fmt.Errorf("oygul login failed: %w", err)
	}
	sess.SetCredentials(creds)
	utils.Info("Session authorized", "session", key, "merchant", creds.MerchantID)

	if c.Store != nil {
		if err := c.Store.Save(sess); err != nil {
			utils.Warn("Failed to persist session", "session", key, "error", err)
		}
	}
	return sess, nil
}

// SaveSession сохраняет сессию если хранилище настроено.
func (c *Components) SaveSession(sess *state.Session) {
	if c.Store == nil || sess == nil {
		return
	}
	if err := c.Store.Save(sess); err != nil {
		utils.Warn("Failed to persist session", "session", sess.Key(), "error", err)
	}
}

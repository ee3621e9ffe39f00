package state

import "context"

type ctxKey struct{}

// WithSession кладёт сессию в контекст.
//
// Инструменты создаются один раз при старте процесса, а сессий может
// быть много (по одной на телеграм-чат). Текущая сессия доезжает до
// Execute через контекст запроса.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext достаёт сессию из контекста. Возвращает nil если её нет.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(ctxKey{}).(*Session)
	return sess
}

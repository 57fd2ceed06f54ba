package bus

import (
	"log"
	"sync"
)

// Handler — подписчик шины. Сигнал не несёт полезной нагрузки:
// получатель сам перечитывает хранилище.
type Handler func()

type subscription struct {
	token   int
	handler Handler
}

// Bus — синхронная шина "коллекция записей изменилась".
// Publish вызывает подписчиков в порядке подписки; очереди и повтора
// нет, подписчик не видит публикаций, случившихся до его подписки.
type Bus struct {
	mu        sync.Mutex
	nextToken int
	subs      []subscription
}

func New() *Bus {
	return &Bus{}
}

// Subscribe регистрирует обработчик и возвращает токен для отписки.
func (b *Bus) Subscribe(h Handler) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextToken++
	b.subs = append(b.subs, subscription{token: b.nextToken, handler: h})
	return b.nextToken
}

// Unsubscribe удаляет подписку по токену. Неизвестный токен игнорируется.
func (b *Bus) Unsubscribe(token int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.token == token {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish синхронно уведомляет всех текущих подписчиков.
// Паника одного обработчика не мешает остальным.
func (b *Bus) Publish() {
	b.mu.Lock()
	handlers := make([]Handler, len(b.subs))
	for i, sub := range b.subs {
		handlers[i] = sub.handler
	}
	b.mu.Unlock()

	for _, h := range handlers {
		b.deliver(h)
	}
}

func (b *Bus) deliver(h Handler) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("bus: subscriber panicked: %v", r)
		}
	}()
	h()
}

package bus

import (
	"testing"
)

// TestPublishOrder проверяет доставку в порядке подписки.
func TestPublishOrder(t *testing.T) {
	b := New()

	var order []int
	b.Subscribe(func() { order = append(order, 1) })
	b.Subscribe(func() { order = append(order, 2) })
	b.Subscribe(func() { order = append(order, 3) })

	b.Publish()

	if len(order) != 3 {
		t.Fatalf("доставлено %d сигналов, ожидалось 3", len(order))
	}
	for i, v := range order {
		if v != i+1 {
			t.Errorf("order[%d] = %d, ожидался %d", i, v, i+1)
		}
	}
}

// TestUnsubscribe проверяет, что отписанный обработчик не вызывается.
func TestUnsubscribe(t *testing.T) {
	b := New()

	var first, second int
	token := b.Subscribe(func() { first++ })
	b.Subscribe(func() { second++ })

	b.Publish()
	b.Unsubscribe(token)
	b.Publish()

	if first != 1 {
		t.Errorf("first = %d, ожидался 1", first)
	}
	if second != 2 {
		t.Errorf("second = %d, ожидался 2", second)
	}
}

// TestPanicIsolation проверяет, что паника одного подписчика не мешает
// остальным.
func TestPanicIsolation(t *testing.T) {
	b := New()

	var delivered bool
	b.Subscribe(func() { panic("subscriber failure") })
	b.Subscribe(func() { delivered = true })

	b.Publish()

	if !delivered {
		t.Error("второй подписчик не получил сигнал после паники первого")
	}
}

// TestNoReplay проверяет, что подписчик не видит публикаций,
// случившихся до подписки.
func TestNoReplay(t *testing.T) {
	b := New()

	b.Publish()

	var count int
	b.Subscribe(func() { count++ })

	if count != 0 {
		t.Errorf("count = %d, ожидался 0: повтора публикаций быть не должно", count)
	}

	b.Publish()
	if count != 1 {
		t.Errorf("count = %d, ожидался 1", count)
	}
}

// TestPublishWithoutSubscribers проверяет, что публикация в пустую
// шину безопасна.
func TestPublishWithoutSubscribers(t *testing.T) {
	b := New()
	b.Publish()
}

// TestUnsubscribeUnknownToken проверяет, что неизвестный токен
// игнорируется.
func TestUnsubscribeUnknownToken(t *testing.T) {
	b := New()
	b.Subscribe(func() {})
	b.Unsubscribe(999)
	b.Publish()
}

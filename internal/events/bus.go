package events

import (
	"sync"
	"time"

	"gamechat/internal/chat"
)

// Type 标识总线上的事件种类。
type Type string

const (
	// EventSay 请求游戏内代理发送一条聊天消息。
	EventSay Type = "say"
	// EventCleared 聊天记录被清空，代理据此重置本地状态。
	EventCleared Type = "cleared"
)

// Event 在服务端组件之间传递的聊天事件。
type Event struct {
	Type    Type
	Message chat.Message
	At      time.Time
}

// Bus 简单的发布订阅；慢订阅者会丢事件而不是阻塞发布方。
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe 返回事件通道以及取消订阅函数。
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	ch := make(chan Event, 32)
	b.subs[id] = ch
	return ch, func() { b.unsubscribe(id) }
}

// Publish 向所有订阅者投递事件，返回成功投递的数量。
func (b *Bus) Publish(evt Event) int {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}
	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- evt:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers 返回当前订阅者数量。
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(ch)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	b.closed = true
}

package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gamechat/internal/chat"

	"github.com/google/uuid"
)

// DefaultCapacity 聊天记录保留的最大条数。
const DefaultCapacity = 100

// Store 保存最近的聊天消息，超出容量时淘汰最旧的一条。
// Path 非空时每条消息同时追加到 JSONL 文件，重启后可回放。
type Store struct {
	mu       sync.RWMutex
	capacity int
	messages []chat.Message
	Path     string
	now      func() time.Time
}

// New 创建内存记录；capacity <= 0 时使用 DefaultCapacity。
func New(capacity int, path string) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		messages: make([]chat.Message, 0, capacity),
		Path:     strings.TrimSpace(path),
		now:      time.Now,
	}
}

// Capacity 返回容量上限。
func (s *Store) Capacity() int {
	return s.capacity
}

// Append 补全 ID 与时间戳后追加消息，返回实际写入的记录。
func (s *Store) Append(msg chat.Message) (chat.Message, error) {
	if s == nil {
		return chat.Message{}, errors.New("history store is nil")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.push(msg)
	if err := s.appendFile(msg); err != nil {
		return msg, err
	}
	return msg, nil
}

// AddSent 记录一条本地发出的消息。
func (s *Store) AddSent(text string) (chat.Message, error) {
	return s.Append(chat.Message{Sender: chat.SelfSender, Message: text, Direction: chat.DirectionSent})
}

// AddReceived 记录一条从游戏中收到的消息。
func (s *Store) AddReceived(sender, text string) (chat.Message, error) {
	return s.Append(chat.Message{Sender: sender, Message: text, Direction: chat.DirectionReceived})
}

// List 按追加顺序返回消息副本，永不返回 nil。
func (s *Store) List() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]chat.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len 返回当前消息数。
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Clear 清空内存记录并截断持久化文件。
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]chat.Message, 0, s.capacity)
	if s.Path == "" {
		return nil
	}
	if err := os.Truncate(s.Path, 0); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Load 从 JSONL 文件回放记录，跳过无法解析的行，只保留最新 capacity 条。
func (s *Store) Load() error {
	if s == nil {
		return errors.New("history store is nil")
	}
	if s.Path == "" {
		return nil
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]chat.Message, 0, s.capacity)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var msg chat.Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			continue
		}
		if strings.TrimSpace(msg.Message) == "" {
			continue
		}
		s.push(msg)
	}
	return scanner.Err()
}

func (s *Store) push(msg chat.Message) {
	s.messages = append(s.messages, msg)
	if len(s.messages) > s.capacity {
		s.messages = append([]chat.Message(nil), s.messages[len(s.messages)-s.capacity:]...)
	}
}

func (s *Store) appendFile(msg chat.Message) error {
	if s.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

package realtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Broadcast channels. "exam" carries join/leave/start/end for both roles,
// "proctoring" carries alerts to observing teachers and warnings to students.
const (
	ChannelExam       = "exam"
	ChannelProctoring = "proctoring"
)

// Exam channel event types.
const (
	EventJoin   = "join"
	EventJoined = "joined"
	EventLeave  = "leave"
	EventStart  = "start"
	EventEnd    = "end"
)

// Proctoring channel event types.
const (
	EventObserve        = "observe"
	EventSessionStarted = "start"
	EventAlert          = "alert"
	EventWarning        = "warning"
)

type Event struct {
	Channel string      `json:"channel"`
	Type    string      `json:"type"`
	ExamID  uint        `json:"exam_id"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

// Subscriber is one connected client in one room. Membership is transient:
// a reconnect must subscribe again.
type Subscriber struct {
	UserID uint
	Role   string
	C      chan Event

	room string
	hub  *Hub
}

// Hub fans events out to room subscribers. Rooms are keyed per exam per
// channel and exist only while someone is connected. The hub owns all of its
// state; it is created once at startup and injected where needed.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscriber]struct{})}
}

func roomKey(channel string, examID uint) string {
	return fmt.Sprintf("%s:%d", channel, examID)
}

func (h *Hub) Subscribe(channel string, examID uint, userID uint, role string) *Subscriber {
	sub := &Subscriber{
		UserID: userID,
		Role:   role,
		C:      make(chan Event, 16),
		room:   roomKey(channel, examID),
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[sub.room] == nil {
		h.rooms[sub.room] = make(map[*Subscriber]struct{})
	}
	h.rooms[sub.room][sub] = struct{}{}
	return sub
}

func (s *Subscriber) Close() {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[s.room]; ok {
		if _, member := room[s]; member {
			delete(room, s)
			close(s.C)
			if len(room) == 0 {
				delete(h.rooms, s.room)
			}
		}
	}
}

// Publish delivers the event to every subscriber of the room. Slow consumers
// whose buffers are full miss the event rather than block the publisher.
func (h *Hub) Publish(channel string, examID uint, eventType string, payload interface{}) {
	evt := Event{
		Channel: channel,
		Type:    eventType,
		ExamID:  examID,
		Payload: payload,
		At:      time.Now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[roomKey(channel, examID)] {
		select {
		case sub.C <- evt:
		default:
			log.Warn().Uint("user_id", sub.UserID).Str("room", sub.room).Msg("Dropping event for slow subscriber")
		}
	}
}

// RoomSize reports the current number of subscribers in a room.
func (h *Hub) RoomSize(channel string, examID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomKey(channel, examID)])
}

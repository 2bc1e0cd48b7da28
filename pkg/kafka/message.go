package kafka

import "time"

// Message is the transport-agnostic record handed to the producer.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

func NewMessage(key string, value []byte) Message {
	return Message{
		Key:       key,
		Value:     value,
		Headers:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

func (m Message) WithHeader(key, value string) Message {
	if m.Headers == nil {
		m.Headers = make(map[string]string)
	}
	m.Headers[key] = value
	return m
}

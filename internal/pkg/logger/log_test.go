package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteDropsWithoutConsumer(t *testing.T) {
	messages := make(chan []byte, 1)
	log := newLogger(messages)

	log.Info("first", Info)
	log.Info("second", Info)

	require.Len(t, messages, 1)
	assert.Contains(t, string(<-messages), `"msg":"first"`)
}

func TestWriteWaitsForConsumer(t *testing.T) {
	SetDrained(true)
	defer SetDrained(false)

	messages := make(chan []byte, 1)
	log := newLogger(messages)
	log.Info("first", Info)

	written := make(chan struct{})
	go func() {
		log.Info("fatal", Error, zap.String("device", "joystick"))
		close(written)
	}()

	select {
	case <-written:
		t.Fatal("write should wait for free space")
	case <-time.After(50 * time.Millisecond):
	}

	assert.Contains(t, string(<-messages), `"msg":"first"`)
	<-written
	last := string(<-messages)
	assert.Contains(t, last, `"msg":"fatal"`)
	assert.Contains(t, last, `"level":0`)
}

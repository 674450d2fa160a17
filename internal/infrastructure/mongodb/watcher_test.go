package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReconnectBackoffDoublesUpToCap(t *testing.T) {
	b := newReconnectBackoff()

	assert.Equal(t, 1*time.Second, b.next())
	assert.Equal(t, 2*time.Second, b.next())
	assert.Equal(t, 4*time.Second, b.next())

	for i := 0; i < 10; i++ {
		b.next()
	}
	assert.Equal(t, 30*time.Second, b.next())
}

func TestReconnectBackoffResetsAfterHealthySession(t *testing.T) {
	b := newReconnectBackoff()

	for i := 0; i < 10; i++ {
		b.next()
	}
	assert.Equal(t, 30*time.Second, b.delay)

	b.reset()

	assert.Equal(t, 1*time.Second, b.next())
	assert.Equal(t, 2*time.Second, b.next())
}

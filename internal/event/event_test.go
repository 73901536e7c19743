package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishLogin_CallOrder(t *testing.T) {
	bus := NewBus()

	var calls []string
	bus.SubscribeLogin(func(Login) { calls = append(calls, "first") })
	bus.SubscribeLogin(func(Login) { calls = append(calls, "second") })

	bus.PublishLogin(Login{UserID: "u1", At: time.Now()})

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestBus_PublishLogin_NoObservers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.PublishLogin(Login{UserID: "u1"})
	})
}

func TestBus_PublishLogin_PayloadDelivered(t *testing.T) {
	bus := NewBus()

	var got Login
	bus.SubscribeLogin(func(e Login) { got = e })

	at := time.Now()
	bus.PublishLogin(Login{UserID: "u1", Email: "a@example.com", Backend: "password", At: at})

	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "password", got.Backend)
	assert.Equal(t, at, got.At)
}

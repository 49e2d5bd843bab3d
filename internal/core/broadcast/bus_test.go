package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonkneen/emdash/internal/core/provider"
)

func TestBus_PublishFansOut(t *testing.T) {
	bus := NewBus()

	var got1, got2 []provider.Event
	bus.Subscribe(func(ev provider.Event) { got1 = append(got1, ev) })
	bus.Subscribe(func(ev provider.Event) { got2 = append(got2, ev) })

	ev := provider.Event{
		ProviderID: "claude",
		Status:     provider.Status{Code: provider.StatusConnected, Installed: true},
	}
	bus.Publish(ev)

	require.Len(t, got1, 1)
	require.Len(t, got2, 1)
	assert.Equal(t, ev, got1[0])
	assert.Equal(t, ev, got2[0])
}

func TestBus_PanickingSubscriberIsSkipped(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(func(provider.Event) { panic("window destroyed") })

	var delivered int
	bus.Subscribe(func(provider.Event) { delivered++ })

	assert.NotPanics(t, func() {
		bus.Publish(provider.Event{ProviderID: "codex"})
		bus.Publish(provider.Event{ProviderID: "codex"})
	})
	assert.Equal(t, 2, delivered)
}

func TestBus_PublishWithNoSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(provider.Event{ProviderID: "gemini"})
	})
}

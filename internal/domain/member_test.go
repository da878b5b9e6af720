package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMember_Mention(t *testing.T) {
	withHandle := &Member{Username: "someone", FullName: "Some One"}
	assert.Equal(t, "@someone", withHandle.Mention())

	noHandle := &Member{FullName: "Some One"}
	assert.Equal(t, "Some One", noHandle.Mention())
}

func TestMember_EndDate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		date := "2026-09-30"
		m := &Member{SubscriptionEndDate: &date}
		got, ok := m.EndDate()
		assert.True(t, ok)
		assert.Equal(t, time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("Absent", func(t *testing.T) {
		m := &Member{}
		_, ok := m.EndDate()
		assert.False(t, ok)
	})

	t.Run("Malformed", func(t *testing.T) {
		date := "30.09.2026"
		m := &Member{SubscriptionEndDate: &date}
		_, ok := m.EndDate()
		assert.False(t, ok)
	})
}

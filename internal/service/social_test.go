package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocialService_FollowRules(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	ada := app.register(t, "ada")
	grace := app.register(t, "grace")

	_, err := app.social.Follow(ctx, ada.ID, ada.ID)
	assert.ErrorIs(t, err, ErrCannotFollowSelf)

	_, err = app.social.Follow(ctx, ada.ID, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	target, err := app.social.Follow(ctx, ada.ID, grace.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace", target.Username)

	_, err = app.social.Follow(ctx, ada.ID, grace.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	followers, err := app.social.Followers(ctx, grace.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, ada.ID, followers[0].ID)
	assert.False(t, followers[0].IsFollowing)

	require.NoError(t, app.social.Unfollow(ctx, ada.ID, grace.ID))
	assert.ErrorIs(t, app.social.Unfollow(ctx, ada.ID, grace.ID), ErrNotFollowing)
}

func TestSocialService_Search(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	ada := app.register(t, "ada")
	grace := app.register(t, "grace")
	app.register(t, "gracie")

	_, err := app.social.Search(ctx, ada.ID, " g ")
	assert.ErrorIs(t, err, ErrSearchQueryTooShort)

	_, err = app.social.Follow(ctx, ada.ID, grace.ID)
	require.NoError(t, err)

	users, err := app.social.Search(ctx, ada.ID, "GRAC")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "grace", users[0].Username)
	assert.True(t, users[0].IsFollowing)
	assert.False(t, users[1].IsFollowing)

	users, err = app.social.Search(ctx, ada.ID, "ada")
	require.NoError(t, err)
	assert.Empty(t, users, "the viewer is excluded")
}

func TestSocialService_FeedIncludesSelfAndFollowing(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	ada := app.register(t, "ada")
	grace := app.register(t, "grace")
	linus := app.register(t, "linus")
	_, err := app.social.Follow(ctx, ada.ID, grace.ID)
	require.NoError(t, err)

	app.checkIn(t, ada.ID, app.habit(t, ada.ID, "Read").ID, "2026-10-13")
	app.checkIn(t, grace.ID, app.habit(t, grace.ID, "Swim").ID, "2026-10-14")
	app.checkIn(t, linus.ID, app.habit(t, linus.ID, "Code").ID, "2026-10-14")

	feed, err := app.social.Feed(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "grace", feed[0].User.Username)
	assert.Equal(t, "Swim", feed[0].Habit.Name)
	assert.Equal(t, "2026-10-14", feed[0].Date)
	assert.Equal(t, "ada", feed[1].User.Username)
}

func TestSocialService_CheckInReachesFollowersLive(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	ada := app.register(t, "ada")
	grace := app.register(t, "grace")
	linus := app.register(t, "linus")
	_, err := app.social.Follow(ctx, grace.ID, ada.ID)
	require.NoError(t, err)

	graceClient := app.social.Subscribe(grace.ID)
	defer app.social.Unsubscribe(graceClient)
	linusClient := app.social.Subscribe(linus.ID)
	defer app.social.Unsubscribe(linusClient)

	habit := app.habit(t, ada.ID, "Read")
	app.checkIn(t, ada.ID, habit.ID, "2026-10-14")

	select {
	case msg := <-graceClient.Messages():
		var event struct {
			Kind string `json:"kind"`
			Item struct {
				Date string `json:"date"`
				User struct {
					Username string `json:"username"`
				} `json:"user"`
				Habit struct {
					Name string `json:"name"`
				} `json:"habit"`
			} `json:"item"`
		}
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, EventCompletionCreated, event.Kind)
		assert.Equal(t, "ada", event.Item.User.Username)
		assert.Equal(t, "Read", event.Item.Habit.Name)
		assert.Equal(t, "2026-10-14", event.Item.Date)
	case <-time.After(time.Second):
		t.Fatal("follower did not receive the check-in")
	}

	select {
	case <-linusClient.Messages():
		t.Fatal("non-follower received the check-in")
	default:
	}

	// Undoing a check-in is not broadcast.
	result, err := app.habits.ToggleCheckIn(ctx, ada.ID, habit.ID, "2026-10-14")
	require.NoError(t, err)
	require.False(t, result.Completed)
	select {
	case <-graceClient.Messages():
		t.Fatal("undo was broadcast")
	default:
	}
}

func TestRealtimeHub_RegisterUnregister(t *testing.T) {
	hub := NewRealtimeHub()
	a := hub.Register("u1")
	b := hub.Register("u1")
	assert.Equal(t, 2, hub.Connected("u1"))

	hub.Broadcast([]string{"u1", "u2"}, Event{Kind: "ping"})
	assert.Len(t, a.Messages(), 1)
	assert.Len(t, b.Messages(), 1)

	hub.Unregister(a)
	hub.Unregister(a)
	assert.Equal(t, 1, hub.Connected("u1"))

	<-a.Messages()
	_, open := <-a.Messages()
	assert.False(t, open)

	hub.Unregister(b)
	assert.Zero(t, hub.Connected("u1"))
}

func TestRealtimeHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewRealtimeHub()
	c := hub.Register("u1")
	for i := 0; i < clientBuffer+5; i++ {
		hub.Broadcast([]string{"u1"}, Event{Kind: "ping"})
	}
	assert.Len(t, c.Messages(), clientBuffer)
}

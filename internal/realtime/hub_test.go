package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubPublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	sub1 := hub.Subscribe()
	sub2 := hub.Subscribe()
	defer sub1.Close()
	defer sub2.Close()

	hub.Publish(TablePosts, KindInsert, PostChange{ID: "post-1", UserID: "user-1"})

	for _, sub := range []*Subscription{sub1, sub2} {
		change := <-sub.C
		assert.Equal(t, TablePosts, change.Table)
		assert.Equal(t, KindInsert, change.Kind)

		var payload PostChange
		assert.NoError(t, json.Unmarshal(change.Payload, &payload))
		assert.Equal(t, "post-1", payload.ID)
	}
}

func TestHubCloseReleasesChannel(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe()
	sub.Close()

	_, open := <-sub.C
	assert.False(t, open)

	// Close idempotent, et publier après fermeture ne panique pas
	sub.Close()
	hub.Publish(TableLikes, KindDelete, LikeChange{PostID: "post-1", UserID: "user-1"})
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe()
	defer sub.Close()

	// Dépasse largement le buffer : Publish ne doit jamais bloquer
	for i := 0; i < 200; i++ {
		hub.Publish(TableComments, KindInsert, CommentChange{ID: "comment", PostID: "post-1"})
	}

	assert.LessOrEqual(t, len(sub.C), 64)
}

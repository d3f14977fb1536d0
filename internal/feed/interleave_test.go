package feed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makePosts(n int) []PostResponse {
	posts := make([]PostResponse, n)
	for i := range posts {
		posts[i] = PostResponse{ID: fmt.Sprintf("post-%d", i+1)}
	}
	return posts
}

func makeActivities(n int) []Activity {
	activities := make([]Activity, n)
	for i := range activities {
		activities[i] = Activity{ID: fmt.Sprintf("activity-%d", i+1), Kind: ActivityChallengeCompleted}
	}
	return activities
}

func typePattern(items []FeedItem) []ItemType {
	pattern := make([]ItemType, len(items))
	for i, item := range items {
		pattern[i] = item.Type
	}
	return pattern
}

func TestInterleave(t *testing.T) {
	tests := []struct {
		name       string
		posts      int
		activities int
		expected   []ItemType
	}{
		{
			name:       "7 posts and 3 activities follow the 3:1 pattern",
			posts:      7,
			activities: 3,
			expected: []ItemType{
				ItemPost, ItemPost, ItemPost, ItemActivity,
				ItemPost, ItemPost, ItemPost, ItemActivity,
				ItemPost, ItemActivity,
			},
		},
		{
			name:       "posts only",
			posts:      5,
			activities: 0,
			expected:   []ItemType{ItemPost, ItemPost, ItemPost, ItemPost, ItemPost},
		},
		{
			name:       "activities only",
			posts:      0,
			activities: 2,
			expected:   []ItemType{ItemActivity, ItemActivity},
		},
		{
			name:       "remaining posts appended after activities exhausted",
			posts:      8,
			activities: 1,
			expected: []ItemType{
				ItemPost, ItemPost, ItemPost, ItemActivity,
				ItemPost, ItemPost, ItemPost, ItemPost, ItemPost,
			},
		},
		{
			name:       "empty inputs",
			posts:      0,
			activities: 0,
			expected:   []ItemType{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Interleave(makePosts(tt.posts), makeActivities(tt.activities))

			assert.Equal(t, tt.expected, typePattern(items))
			assert.Len(t, items, tt.posts+tt.activities)
		})
	}
}

func TestInterleavePreservesOrderWithinSources(t *testing.T) {
	items := Interleave(makePosts(7), makeActivities(3))

	var postIDs, activityIDs []string
	for _, item := range items {
		switch item.Type {
		case ItemPost:
			postIDs = append(postIDs, item.Post.ID)
		case ItemActivity:
			activityIDs = append(activityIDs, item.Activity.ID)
		}
	}

	assert.Equal(t, []string{"post-1", "post-2", "post-3", "post-4", "post-5", "post-6", "post-7"}, postIDs)
	assert.Equal(t, []string{"activity-1", "activity-2", "activity-3"}, activityIDs)
}

package feed

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LucasBertrand/SkateHub-Back/internal/realtime"
)

// fakeSource sert des pages prédéfinies et compte les fetchs.
type fakeSource struct {
	pages      map[int][]PostResponse
	activities []Activity
	posts      map[string]PostResponse
	comments   map[string]CommentResponse
	pageCalls  int
}

func (f *fakeSource) Page(page, limit int, viewerID string) ([]PostResponse, bool, error) {
	f.pageCalls++
	posts := f.pages[page]
	_, hasNext := f.pages[page+1]
	return posts, hasNext, nil
}

func (f *fakeSource) Activities(limit int) ([]Activity, error) {
	if len(f.activities) > limit {
		return f.activities[:limit], nil
	}
	return f.activities, nil
}

func (f *fakeSource) PostByID(postID, viewerID string) (*PostResponse, error) {
	if p, ok := f.posts[postID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeSource) CommentByID(commentID string) (*CommentResponse, error) {
	if c, ok := f.comments[commentID]; ok {
		return &c, nil
	}
	return nil, nil
}

func likeChange(kind realtime.Kind, postID, userID string, count *int64) realtime.Change {
	raw, _ := json.Marshal(realtime.LikeChange{PostID: postID, UserID: userID, LikeCount: count})
	return realtime.Change{Table: realtime.TableLikes, Kind: kind, Payload: raw}
}

func postChange(kind realtime.Kind, postID, userID string) realtime.Change {
	raw, _ := json.Marshal(realtime.PostChange{ID: postID, UserID: userID})
	return realtime.Change{Table: realtime.TablePosts, Kind: kind, Payload: raw}
}

func commentChange(commentID, postID string) realtime.Change {
	raw, _ := json.Marshal(realtime.CommentChange{ID: commentID, PostID: postID})
	return realtime.Change{Table: realtime.TableComments, Kind: realtime.KindInsert, Payload: raw}
}

func newTestSource() *fakeSource {
	return &fakeSource{
		pages: map[int][]PostResponse{
			1: {
				{ID: "post-1", UserID: "author-1", CreatedAt: time.Now()},
				{ID: "post-2", UserID: "author-2", CreatedAt: time.Now().Add(-time.Minute)},
			},
		},
		posts:    map[string]PostResponse{},
		comments: map[string]CommentResponse{},
	}
}

func TestLoadNextStopsWhenNoMorePages(t *testing.T) {
	src := newTestSource()
	r := NewReconciler(src, "viewer", 20)

	assert.NoError(t, r.LoadNext())
	assert.Equal(t, 1, src.pageCalls)
	assert.Len(t, r.Items(), 2)

	// hasMore est false : aucune nouvelle lecture ne doit partir
	assert.NoError(t, r.LoadNext())
	assert.NoError(t, r.LoadNext())
	assert.Equal(t, 1, src.pageCalls)
}

func TestPageOneInterleavesActivities(t *testing.T) {
	src := newTestSource()
	src.pages[1] = []PostResponse{
		{ID: "post-1"}, {ID: "post-2"}, {ID: "post-3"}, {ID: "post-4"},
	}
	src.activities = []Activity{{ID: "activity-1", Kind: ActivityEventCreated}}

	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	items := r.Items()
	assert.Equal(t, []ItemType{ItemPost, ItemPost, ItemPost, ItemActivity, ItemPost}, typePattern(items))
}

func TestLikeCountNeverNegative(t *testing.T) {
	src := newTestSource()
	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	// Deux suppressions de like pour un post à zéro : plancher à 0
	r.ApplyChange(likeChange(realtime.KindDelete, "post-1", "someone", nil))
	r.ApplyChange(likeChange(realtime.KindDelete, "post-1", "someone-else", nil))

	items := r.Items()
	assert.Equal(t, int64(0), items[0].Post.LikeCount)

	// Insert puis delete reviennent à zéro, jamais en dessous
	r.ApplyChange(likeChange(realtime.KindInsert, "post-1", "someone", nil))
	r.ApplyChange(likeChange(realtime.KindDelete, "post-1", "someone", nil))
	r.ApplyChange(likeChange(realtime.KindDelete, "post-1", "someone", nil))

	assert.Equal(t, int64(0), r.Items()[0].Post.LikeCount)
}

func TestLikeAggregatePreferredOverIncrement(t *testing.T) {
	src := newTestSource()
	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	aggregate := int64(7)
	r.ApplyChange(likeChange(realtime.KindInsert, "post-1", "viewer", &aggregate))

	post := r.Items()[0].Post
	assert.Equal(t, int64(7), post.LikeCount)
	assert.True(t, post.IsLiked)
}

func TestViewerLikeFlagOnlyForViewer(t *testing.T) {
	src := newTestSource()
	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	r.ApplyChange(likeChange(realtime.KindInsert, "post-1", "stranger", nil))
	assert.False(t, r.Items()[0].Post.IsLiked)

	r.ApplyChange(likeChange(realtime.KindInsert, "post-1", "viewer", nil))
	assert.True(t, r.Items()[0].Post.IsLiked)

	// Le unlike d'un tiers ne retire pas le drapeau du lecteur
	r.ApplyChange(likeChange(realtime.KindDelete, "post-1", "stranger", nil))
	assert.True(t, r.Items()[0].Post.IsLiked)

	r.ApplyChange(likeChange(realtime.KindDelete, "post-1", "viewer", nil))
	assert.False(t, r.Items()[0].Post.IsLiked)
}

func TestLikeForUnloadedPostIsDropped(t *testing.T) {
	src := newTestSource()
	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	before := r.Items()
	r.ApplyChange(likeChange(realtime.KindInsert, "post-inconnu", "someone", nil))
	assert.Equal(t, before, r.Items())
}

func TestRemotePostInsertPrepends(t *testing.T) {
	src := newTestSource()
	src.posts["post-new"] = PostResponse{ID: "post-new", UserID: "author-3", Username: "rider"}

	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	r.ApplyChange(postChange(realtime.KindInsert, "post-new", "author-3"))

	items := r.Items()
	assert.Equal(t, "post-new", items[0].Post.ID)
	assert.Equal(t, "rider", items[0].Post.Username)
	assert.Len(t, items, 3)
}

func TestOwnRemoteEchoIsSuppressed(t *testing.T) {
	src := newTestSource()
	src.posts["post-mine"] = PostResponse{ID: "post-mine", UserID: "viewer"}

	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	// L'écho distant d'un post du lecteur est ignoré : l'insertion optimiste
	// l'a déjà placé
	r.ApplyChange(postChange(realtime.KindInsert, "post-mine", "viewer"))
	assert.Len(t, r.Items(), 2)
}

func TestOptimisticCreateNeverDuplicatedByEcho(t *testing.T) {
	src := newTestSource()
	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	// Le serveur confirme : le post apparaît en page 1 au refetch
	src.pages[1] = append([]PostResponse{{ID: "post-confirmed", UserID: "viewer", Content: "nollie flip"}}, src.pages[1]...)
	src.posts["post-confirmed"] = PostResponse{ID: "post-confirmed", UserID: "viewer", Content: "nollie flip"}

	r.OptimisticCreate("nollie flip", "", "text", "nollie-flip")

	// Puis l'écho temps réel arrive
	r.ApplyChange(postChange(realtime.KindInsert, "post-confirmed", "viewer"))

	var occurrences int
	for _, item := range r.Items() {
		if item.Type == ItemPost && item.Post.ID == "post-confirmed" {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences)

	// Plus aucun post provisoire après réconciliation
	for _, item := range r.Items() {
		if item.Type == ItemPost {
			assert.False(t, item.Post.Pending)
		}
	}
}

func TestRemoteDeleteIsNoOpWhenAbsent(t *testing.T) {
	src := newTestSource()
	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	r.ApplyChange(postChange(realtime.KindDelete, "post-1", "author-1"))
	assert.Len(t, r.Items(), 1)

	// Déjà retiré localement : aucun effet
	r.ApplyChange(postChange(realtime.KindDelete, "post-1", "author-1"))
	assert.Len(t, r.Items(), 1)
}

func TestCommentInsertBumpsCountAndAppends(t *testing.T) {
	src := newTestSource()
	src.comments["comment-1"] = CommentResponse{ID: "comment-1", PostID: "post-1", Username: "rider", Content: "clean"}

	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	// Sans liste de commentaires chargée : seul le compteur bouge
	r.ApplyChange(commentChange("comment-1", "post-1"))
	post := r.Items()[0].Post
	assert.Equal(t, int64(1), post.CommentCount)
	assert.Nil(t, post.Comments)
}

func TestRemoveLocalDropsPostImmediately(t *testing.T) {
	src := newTestSource()
	r := NewReconciler(src, "viewer", 20)
	assert.NoError(t, r.LoadNext())

	r.RemoveLocal("post-1")
	items := r.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "post-2", items[0].Post.ID)

	// ID inconnu ou vide : aucun effet
	r.RemoveLocal("post-404")
	r.RemoveLocal("")
	assert.Len(t, r.Items(), 1)
}

// blockingSource suspend le premier fetch jusqu'au signal release.
type blockingSource struct {
	*fakeSource
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSource) Page(page, limit int, viewerID string) ([]PostResponse, bool, error) {
	b.once.Do(func() {
		close(b.started)
		<-b.release
	})
	return b.fakeSource.Page(page, limit, viewerID)
}

func TestRefreshDuringLoadIsReplayedAfterFetch(t *testing.T) {
	src := &blockingSource{
		fakeSource: newTestSource(),
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	r := NewReconciler(src, "viewer", 20)

	loadDone := make(chan error, 1)
	go func() { loadDone <- r.LoadNext() }()

	// Le fetch est en vol : le refresh est mis en attente sans toucher la page
	<-src.started
	assert.NoError(t, r.Refresh())

	r.mu.Lock()
	assert.True(t, r.refreshQueued)
	r.mu.Unlock()

	close(src.release)
	assert.NoError(t, <-loadDone)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, 1, r.page)
	assert.False(t, r.refreshQueued)
	assert.Len(t, r.items, 2)
	// 1er fetch + rechargement différé
	assert.Equal(t, 2, src.pageCalls)
}

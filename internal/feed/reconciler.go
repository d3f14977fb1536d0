package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/realtime"
)

// Nombre maximum d'activités intercalées en page 1.
const activitiesPageOne = 10

// Reconciler maintient la copie en mémoire du feed d'un lecteur et la patch
// au fil des changements distants et des actions locales optimistes. Les
// callbacks temps réel et les fetchs de pagination s'entrelacent librement :
// chaque opération relit l'état courant sous verrou plutôt que de supposer
// sa fraîcheur.
type Reconciler struct {
	mu       sync.Mutex
	src      Source
	viewerID string

	items         []FeedItem
	page          int
	limit         int
	hasMore       bool
	loading       bool
	refreshQueued bool
}

func NewReconciler(src Source, viewerID string, limit int) *Reconciler {
	if limit <= 0 {
		limit = 20
	}
	return &Reconciler{
		src:      src,
		viewerID: viewerID,
		limit:    limit,
		hasMore:  true,
	}
}

// Items renvoie une copie de l'état courant du feed.
func (r *Reconciler) Items() []FeedItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]FeedItem, len(r.items))
	copy(snapshot, r.items)
	return snapshot
}

// LoadNext charge la page suivante. Sans page restante ou avec un fetch déjà
// en cours, l'appel ne déclenche aucune lecture.
func (r *Reconciler) LoadNext() error {
	r.mu.Lock()
	if !r.hasMore || r.loading {
		r.mu.Unlock()
		return nil
	}
	r.loading = true
	page := r.page + 1
	r.mu.Unlock()

	posts, hasMore, err := r.src.Page(page, r.limit, r.viewerID)
	if err != nil {
		// Feed best-effort : on relâche le verrou de chargement et le feed
		// cesse simplement de grandir.
		r.mu.Lock()
		r.loading = false
		queued := r.refreshQueued
		r.refreshQueued = false
		r.mu.Unlock()
		logs.LogJSON("ERROR", "Feed page fetch error", map[string]interface{}{
			"error": err.Error(),
			"page":  page,
		})
		if queued {
			_ = r.Refresh()
		}
		return err
	}

	var items []FeedItem
	if page == 1 {
		activities, aerr := r.src.Activities(activitiesPageOne)
		if aerr != nil {
			logs.LogJSON("WARN", "Feed activities fetch error", map[string]interface{}{
				"error": aerr.Error(),
			})
			activities = nil
		}
		items = Interleave(posts, activities)
	} else {
		items = Interleave(posts, nil)
	}

	r.mu.Lock()
	r.loading = false
	r.page = page
	r.hasMore = hasMore && len(posts) > 0
	if page == 1 {
		r.items = items
	} else {
		r.items = append(r.items, items...)
	}
	queued := r.refreshQueued
	r.refreshQueued = false
	r.mu.Unlock()

	// Refresh arrivé pendant le fetch : rejoué maintenant que l'état est posé
	if queued {
		return r.Refresh()
	}
	return nil
}

// Refresh recharge la page 1 en remplaçant l'état (réconciliation après une
// création optimiste). Si un fetch est déjà en vol, le refresh est mis en
// attente et rejoué dès la fin du fetch plutôt que d'en corrompre la page.
func (r *Reconciler) Refresh() error {
	r.mu.Lock()
	if r.loading {
		r.refreshQueued = true
		r.mu.Unlock()
		return nil
	}
	r.page = 0
	r.hasMore = true
	r.mu.Unlock()
	return r.LoadNext()
}

// OptimisticCreate insère immédiatement un post provisoire du lecteur, puis
// recharge la page 1 pour le remplacer par la vérité serveur. Le post distant
// correspondant ne sera jamais ré-inséré par ApplyChange (filtre auteur).
func (r *Reconciler) OptimisticCreate(content, mediaURL, postType, trickTag string) string {
	provisional := PostResponse{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		UserID:    r.viewerID,
		Content:   content,
		MediaURL:  mediaURL,
		PostType:  postType,
		TrickTag:  trickTag,
		Pending:   true,
	}

	r.mu.Lock()
	r.items = append([]FeedItem{{Type: ItemPost, Post: &provisional}}, r.items...)
	r.mu.Unlock()

	if err := r.Refresh(); err != nil {
		logs.LogJSON("WARN", "Optimistic post refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return provisional.ID
}

// RemoveLocal retire un post immédiatement (suppression locale optimiste).
func (r *Reconciler) RemoveLocal(postID string) {
	if postID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removePost(postID)
}

// ApplyChange applique un changement distant à l'état courant. Les payloads
// inconnus ou les posts hors de la fenêtre chargée sont ignorés sans erreur :
// chaque événement est un patch best-effort sur l'état existant.
func (r *Reconciler) ApplyChange(change realtime.Change) {
	switch change.Table {
	case realtime.TablePosts:
		var payload realtime.PostChange
		if err := json.Unmarshal(change.Payload, &payload); err != nil {
			return
		}
		switch change.Kind {
		case realtime.KindInsert:
			r.applyPostInsert(payload)
		case realtime.KindDelete:
			r.mu.Lock()
			r.removePost(payload.ID)
			r.mu.Unlock()
		}

	case realtime.TableLikes:
		var payload realtime.LikeChange
		if err := json.Unmarshal(change.Payload, &payload); err != nil {
			return
		}
		switch change.Kind {
		case realtime.KindInsert:
			r.applyLikeInsert(payload)
		case realtime.KindDelete:
			r.applyLikeDelete(payload)
		}

	case realtime.TableComments:
		var payload realtime.CommentChange
		if err := json.Unmarshal(change.Payload, &payload); err != nil {
			return
		}
		if change.Kind == realtime.KindInsert {
			r.applyCommentInsert(payload)
		}
	}
}

// applyPostInsert préfixe un nouveau post distant. Les posts du lecteur sont
// ignorés : déjà présents via l'insertion optimiste, l'écho distant ne doit
// jamais produire de doublon.
func (r *Reconciler) applyPostInsert(payload realtime.PostChange) {
	if payload.UserID == r.viewerID {
		return
	}

	r.mu.Lock()
	if r.findPost(payload.ID) != nil {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	full, err := r.src.PostByID(payload.ID, r.viewerID)
	if err != nil || full == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-vérification : un autre callback a pu l'insérer pendant le fetch
	if r.findPost(payload.ID) != nil {
		return
	}
	r.items = append([]FeedItem{{Type: ItemPost, Post: full}}, r.items...)
}

func (r *Reconciler) applyLikeInsert(payload realtime.LikeChange) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post := r.findPost(payload.PostID)
	if post == nil {
		return // post pas encore chargé : événement ignoré
	}

	// L'agrégat précalculé prime sur l'incrément local
	if payload.LikeCount != nil {
		post.LikeCount = *payload.LikeCount
	} else {
		post.LikeCount++
	}
	if payload.UserID == r.viewerID {
		post.IsLiked = true
	}
}

func (r *Reconciler) applyLikeDelete(payload realtime.LikeChange) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post := r.findPost(payload.PostID)
	if post == nil {
		return
	}

	if payload.LikeCount != nil {
		post.LikeCount = *payload.LikeCount
	} else {
		post.LikeCount--
	}
	if post.LikeCount < 0 {
		post.LikeCount = 0
	}
	if payload.UserID == r.viewerID {
		post.IsLiked = false
	}
}

func (r *Reconciler) applyCommentInsert(payload realtime.CommentChange) {
	r.mu.Lock()
	if r.findPost(payload.PostID) == nil {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	comment, err := r.src.CommentByID(payload.ID)
	if err != nil || comment == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	post := r.findPost(payload.PostID)
	if post == nil {
		return
	}
	post.CommentCount++
	if post.Comments != nil {
		post.Comments = append(post.Comments, *comment)
	}
}

// findPost renvoie le post détenu, nil sinon. Appelant sous verrou.
func (r *Reconciler) findPost(postID string) *PostResponse {
	for i := range r.items {
		if r.items[i].Type == ItemPost && r.items[i].ID() == postID {
			return r.items[i].Post
		}
	}
	return nil
}

// removePost retire un post, no-op s'il est absent. Appelant sous verrou.
func (r *Reconciler) removePost(postID string) {
	for i := range r.items {
		if r.items[i].Type == ItemPost && r.items[i].ID() == postID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return
		}
	}
}

package realtime

import (
	"encoding/json"
	"sync"

	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
)

// Table identifie la table source d'un changement diffusé.
type Table string

const (
	TablePosts    Table = "posts"
	TableLikes    Table = "likes"
	TableComments Table = "comments"
)

// Kind identifie la nature du changement.
type Kind string

const (
	KindInsert Kind = "INSERT"
	KindUpdate Kind = "UPDATE"
	KindDelete Kind = "DELETE"
)

// Change est l'événement diffusé aux abonnés. Le payload est typé côté
// consommateur via les structs *Change ci-dessous, jamais manipulé en brut.
type Change struct {
	Table   Table           `json:"table"`
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// PostChange est le payload des changements sur la table posts.
type PostChange struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// LikeChange est le payload des changements sur la table likes. LikeCount
// porte l'agrégat précalculé quand l'émetteur le connaît ; nil sinon.
type LikeChange struct {
	PostID    string `json:"post_id"`
	UserID    string `json:"user_id"`
	LikeCount *int64 `json:"like_count,omitempty"`
}

// CommentChange est le payload des changements sur la table comments.
type CommentChange struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

// Hub distribue les changements aux connexions abonnées. Un Hub par process,
// les abonnements sont détenus par les connexions et libérés par un unique
// Close() : pas de registre implicite qui survivrait aux navigations.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Change
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Change)}
}

// hub global du process, alimenté par les handlers après leurs écritures.
var DefaultHub = NewHub()

// Subscription est l'abonnement d'une connexion au flux de changements.
type Subscription struct {
	C   <-chan Change
	hub *Hub
	id  int
}

// Close libère le canal. Idempotent.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s.id)
}

// Subscribe enregistre un nouvel abonné. L'appelant doit appeler Close()
// au teardown de la connexion.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan Change, 64)
	h.subs[id] = ch

	return &Subscription{C: ch, hub: h, id: id}
}

func (h *Hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish diffuse un changement à tous les abonnés. Best-effort : un abonné
// dont le buffer est plein perd l'événement plutôt que de bloquer l'écriture.
func (h *Hub) Publish(table Table, kind Kind, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logs.LogJSON("ERROR", "Realtime payload marshal error", map[string]interface{}{
			"error": err.Error(),
			"table": string(table),
		})
		return
	}

	change := Change{Table: table, Kind: kind, Payload: raw}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- change:
		default:
		}
	}
}

// Publish diffuse sur le hub global.
func Publish(table Table, kind Kind, payload interface{}) {
	DefaultHub.Publish(table, kind, payload)
}

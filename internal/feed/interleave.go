package feed

// Interleave mélange posts et activités selon le motif 3:1 de la première
// page du feed : 3 posts puis 1 activité, en boucle. Quand une des deux
// sources s'épuise, le reste de l'autre est ajouté à la suite.
func Interleave(posts []PostResponse, activities []Activity) []FeedItem {
	items := make([]FeedItem, 0, len(posts)+len(activities))

	pi, ai := 0, 0
	for pi < len(posts) || ai < len(activities) {
		for n := 0; n < 3 && pi < len(posts); n++ {
			p := posts[pi]
			items = append(items, FeedItem{Type: ItemPost, Post: &p})
			pi++
		}
		if ai < len(activities) {
			a := activities[ai]
			items = append(items, FeedItem{Type: ItemActivity, Activity: &a})
			ai++
		}
	}

	return items
}

package events

// Topic constants for domain events emitted by the API.
const (
	TopicUserCreated     = "user.created"
	TopicProductUpdated  = "product.updated"
	TopicCartItemAdded   = "cart.item_added"
	TopicCartItemRemoved = "cart.item_removed"
	TopicOrderCheckedOut = "order.checked_out"
	TopicWishlistAdded   = "wishlist.added"
)

// StockAffectingTopics lists topics whose events change visible stock levels.
func StockAffectingTopics() []string {
	return []string{
		TopicProductUpdated,
		TopicCartItemAdded,
		TopicCartItemRemoved,
	}
}

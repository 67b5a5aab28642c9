// Package drafts hands an unpublished schema from the builder to the draft
// preview page. A draft is stored under a random token and can be taken
// exactly once; unclaimed drafts expire after a TTL.
package drafts

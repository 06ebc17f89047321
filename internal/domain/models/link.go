// internal/domain/models/link.go
package models

import "time"

// Link is a URL shared into a group's feed.
//
// Links live embedded in the group document's links array. The id is
// client-generated (UUID) because the array elements have no document
// ids of their own. AuthorNickname is a snapshot taken at share time
// and is not rewritten when the author later renames themselves.
type Link struct {
	ID          string `bson:"id" json:"id"`
	URL         string `bson:"url" json:"url"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`

	Author         string    `bson:"author" json:"author"` // email
	AuthorNickname string    `bson:"author_nickname" json:"author_nickname"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`

	Votes    Votes     `bson:"votes" json:"votes"`
	Comments []Comment `bson:"comments" json:"comments"`
}

// Votes holds the up/down vote rolls for a link, as sets of member
// emails. An email appears in at most one of the two at any time.
type Votes struct {
	Up   []string `bson:"up" json:"up"`
	Down []string `bson:"down" json:"down"`
}

// Comment is an append-only remark on a link. There is no edit or
// delete operation.
type Comment struct {
	ID             string    `bson:"id" json:"id"`
	Content        string    `bson:"content" json:"content"`
	Author         string    `bson:"author" json:"author"`
	AuthorNickname string    `bson:"author_nickname" json:"author_nickname"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}

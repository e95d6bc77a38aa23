package source

import (
	"context"
	"sync"

	"civic_ingest/internal/model"
)

// DefaultInboxSize bounds how many group messages wait for the next run.
const DefaultInboxSize = 200

// Inbox buffers posts pushed by chat integrations until the next run
// drains them. When full, the oldest post is dropped.
type Inbox struct {
	mu    sync.Mutex
	size  int
	posts []model.RawPost
}

// NewInbox creates an Inbox holding at most size posts.
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{size: size}
}

// Push adds a post and reports whether an older post was dropped to make room.
func (b *Inbox) Push(post model.RawPost) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := false
	if len(b.posts) >= b.size {
		b.posts = b.posts[1:]
		dropped = true
	}
	b.posts = append(b.posts, post)
	return dropped
}

// Len returns the number of buffered posts.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.posts)
}

// Name implements Feed.
func (b *Inbox) Name() string { return "inbox" }

// Posts implements Feed. It drains the buffer.
func (b *Inbox) Posts(context.Context) ([]model.RawPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.posts
	b.posts = nil
	return out, nil
}

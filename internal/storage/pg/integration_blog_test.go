package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayapps/waysite/internal/domain"
)

func TestSavePost(t *testing.T) {
	id, err := storage.SavePost(domain.BlogPost{
		Title: "Hello", Slug: "hello", Content: "body", Excerpt: "ex",
		Category: "news", Status: domain.PostDraft,
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	_, err = storage.SavePost(domain.BlogPost{Title: "Dup", Slug: "hello", Content: "body", Category: "news", Status: domain.PostDraft})
	assertStatusCode(t, err, 409)
}

func TestPostLookups(t *testing.T) {
	id, err := storage.SavePost(domain.BlogPost{
		Title: "Lookup", Slug: "lookup", Content: "body", Category: "guides", Status: domain.PostPublished,
	})
	require.NoError(t, err)

	bySlug, err := storage.PostBySlug("lookup")
	require.NoError(t, err)
	assert.Equal(t, id, bySlug.Id)

	byId, err := storage.PostById(id)
	require.NoError(t, err)
	assert.Equal(t, "Lookup", byId.Title)

	_, err = storage.PostBySlug("missing")
	assertStatusCode(t, err, 404)
}

func TestPublishedPosts(t *testing.T) {
	_, err := storage.SavePost(domain.BlogPost{Title: "P1", Slug: "pub-1", Content: "b", Category: "fitness", Status: domain.PostPublished})
	require.NoError(t, err)
	_, err = storage.SavePost(domain.BlogPost{Title: "D1", Slug: "draft-1", Content: "b", Category: "fitness", Status: domain.PostDraft})
	require.NoError(t, err)

	published, err := storage.PublishedPosts("", 50, 0)
	require.NoError(t, err)
	for _, p := range published {
		assert.Equal(t, domain.PostPublished, p.Status, "drafts must not leak into the public list")
	}

	fitness, err := storage.PublishedPosts("fitness", 50, 0)
	require.NoError(t, err)
	require.NotEmpty(t, fitness)
	for _, p := range fitness {
		assert.Equal(t, "fitness", p.Category)
	}

	categories, err := storage.Categories()
	require.NoError(t, err)
	assert.Contains(t, categories, "fitness")
}

func TestUpdatePost(t *testing.T) {
	id, err := storage.SavePost(domain.BlogPost{Title: "Old", Slug: "update-me", Content: "b", Category: "news", Status: domain.PostDraft})
	require.NoError(t, err)

	err = storage.UpdatePost(domain.BlogPost{
		Id: id, Title: "New", Slug: "update-me", Content: "b2", Excerpt: "e",
		Category: "news", Status: domain.PostPublished,
	})
	require.NoError(t, err)

	post, err := storage.PostById(id)
	require.NoError(t, err)
	assert.Equal(t, "New", post.Title)
	assert.Equal(t, domain.PostPublished, post.Status)
	assert.NotNil(t, post.UpdatedAt)

	err = storage.UpdatePost(domain.BlogPost{Id: 999999, Slug: "nope", Status: domain.PostDraft})
	assertStatusCode(t, err, 404)
}

func TestDeletePost(t *testing.T) {
	id, err := storage.SavePost(domain.BlogPost{Title: "Bye", Slug: "bye", Content: "b", Category: "news", Status: domain.PostDraft})
	require.NoError(t, err)

	require.NoError(t, storage.DeletePost(id))
	_, err = storage.PostById(id)
	assertStatusCode(t, err, 404)
}

func TestIncrementPostViews(t *testing.T) {
	id, err := storage.SavePost(domain.BlogPost{Title: "Viewed", Slug: "viewed", Content: "b", Category: "news", Status: domain.PostPublished})
	require.NoError(t, err)

	require.NoError(t, storage.IncrementPostViews(id))
	require.NoError(t, storage.IncrementPostViews(id))

	post, err := storage.PostById(id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), post.Views)
}

func TestBlogStats(t *testing.T) {
	_, err := storage.SavePost(domain.BlogPost{Title: "Stat", Slug: "stat-post", Content: "b", Category: "news", Status: domain.PostPublished})
	require.NoError(t, err)

	stats, err := storage.BlogStats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Total, 1)
	assert.GreaterOrEqual(t, stats.Published, 1)
	assert.Equal(t, stats.Total, stats.Published+stats.Drafts)
}

package submissions

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/storeblocks/pkg/forms"
)

var t0 = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func submission(form, page string, at time.Time) forms.Submission {
	return forms.Submission{
		ID:            uuid.New(),
		Form:          form,
		PageID:        page,
		BlockID:       "b1",
		Values:        map[string]string{"email": "kim@example.com"},
		ReceiverEmail: "sales@example.com",
		Timestamp:     at,
	}
}

func TestFromSubmission(t *testing.T) {
	s := submission("contact", "home", t0.In(time.FixedZone("CET", 3600)))
	r := FromSubmission(s)

	assert.Equal(t, s.ID.String(), r.ID)
	assert.Equal(t, "contact", r.Form)
	assert.Equal(t, "home", r.PageID)
	assert.Equal(t, "b1", r.BlockID)
	assert.Equal(t, "sales@example.com", r.ReceiverEmail)
	assert.Equal(t, time.UTC, r.CreatedAt.Location())
	assert.True(t, r.CreatedAt.Equal(t0))

	s.Values["email"] = "changed@example.com"
	assert.Equal(t, "kim@example.com", r.Values["email"], "record must not alias submission values")
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	r := FromSubmission(submission("contact", "home", t0))
	require.NoError(t, store.Save(ctx, r))

	got, err := store.Get(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, r.Values, got.Values)
	assert.True(t, r.CreatedAt.Equal(got.CreatedAt))

	missing, err := store.Get(ctx, uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, missing)

	traversal, err := store.Get(ctx, "../escape")
	assert.NoError(t, err)
	assert.Nil(t, traversal)

	assert.Error(t, store.Save(ctx, Record{ID: "../escape"}))
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for i, s := range []forms.Submission{
		submission("contact", "home", t0),
		submission("contact", "about", t0.Add(time.Hour)),
		submission("requestQuote", "home", t0.Add(2*time.Hour)),
	} {
		require.NoError(t, store.Save(ctx, FromSubmission(s)), i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(store.Path(), "junk.json"), []byte("{"), 0o600))

	all, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "requestQuote", all[0].Form, "newest first")

	contact, err := store.List(ctx, Filter{Form: "contact"})
	require.NoError(t, err)
	assert.Len(t, contact, 2)

	home, err := store.List(ctx, Filter{PageID: "home", Limit: 1})
	require.NoError(t, err)
	require.Len(t, home, 1)
	assert.Equal(t, "requestQuote", home[0].Form)
}

type failingStore struct{ FileStore }

func (failingStore) Save(context.Context, Record) error { return stderrors.New("disk full") }

func TestHandler(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var forwarded []forms.Submission
	next := func(_ context.Context, s forms.Submission) error {
		forwarded = append(forwarded, s)
		return nil
	}

	s := submission("contact", "home", t0)
	require.NoError(t, Handler(store, next)(ctx, s))
	require.Len(t, forwarded, 1)

	saved, err := store.Get(ctx, s.ID.String())
	require.NoError(t, err)
	assert.NotNil(t, saved)

	require.NoError(t, Handler(store, nil)(ctx, submission("contact", "home", t0)))

	err = Handler(&failingStore{}, next)(ctx, s)
	assert.ErrorContains(t, err, "disk full")
	assert.Len(t, forwarded, 1, "next must not run after a storage failure")
}

func TestHandlerForwardError(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	boom := stderrors.New("mail relay down")
	err = Handler(store, func(context.Context, forms.Submission) error { return boom })(context.Background(), submission("contact", "", t0))
	assert.ErrorIs(t, err, boom)
}

func TestFilterDoc(t *testing.T) {
	assert.Equal(t, bson.M{}, filterDoc(Filter{}))
	assert.Equal(t, bson.M{"form": "contact", "page_id": "home"}, filterDoc(Filter{Form: "contact", PageID: "home", Limit: 3}))
}

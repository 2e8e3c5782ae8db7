package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/newsweb/news-be/internal/models"
	"github.com/newsweb/news-be/internal/storage/memory"
)

// flakyNotificationStore fails writes for one recipient.
type flakyNotificationStore struct {
	*memory.Store
	failFor string
}

func (f *flakyNotificationStore) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.RecipientID == f.failFor {
		return models.Notification{}, errors.New("write failed")
	}
	return f.Store.CreateNotification(ctx, n)
}

func seedUsers(t *testing.T, store *memory.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := store.CreateUser(context.Background(), models.User{ID: id, Email: id + "@x.com"})
		require.NoError(t, err)
	}
}

func TestBroadcastReachesAllUsers(t *testing.T) {
	store := memory.New()
	seedUsers(t, store, "u1", "u2", "u3")
	svc := New(store, store)

	svc.BroadcastNewPost(context.Background(), models.Post{
		ID: "p1", Title: "Breaking", Content: "Big news", Image: "img.png", LikeCount: 2,
	})

	for _, id := range []string{"u1", "u2", "u3"} {
		list, err := store.ListNotifications(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "Breaking", list[0].Title)
		require.Equal(t, "Big news", list[0].Message)
	}
}

func TestBroadcastDeepLinkEscaped(t *testing.T) {
	store := memory.New()
	seedUsers(t, store, "u1")
	svc := New(store, store)

	svc.BroadcastNewPost(context.Background(), models.Post{
		ID: "p1", Title: "A & B", Content: "50% off", LikeCount: 0,
	})

	list, err := store.ListNotifications(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Contains(t, list[0].URL, "title=A+%26+B")
	require.Contains(t, list[0].URL, "content=50%25+off")
	require.Contains(t, list[0].URL, "postId=p1")
}

// One recipient failing must not stop delivery to the rest.
func TestBroadcastSurvivesRecipientFailure(t *testing.T) {
	store := memory.New()
	seedUsers(t, store, "u1", "u2", "u3")
	svc := New(store, &flakyNotificationStore{Store: store, failFor: "u2"})

	svc.BroadcastUpdatedPost(context.Background(), models.Post{ID: "p1", Title: "Edited"})

	for id, want := range map[string]int{"u1": 1, "u2": 0, "u3": 1} {
		list, err := store.ListNotifications(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, list, want, "recipient %s", id)
	}
}

func TestWelcomeAndLoginAlert(t *testing.T) {
	store := memory.New()
	seedUsers(t, store, "u1")
	svc := New(store, store)
	user := models.User{ID: "u1", Name: "Ada", Country: "Iceland"}

	svc.Welcome(context.Background(), user)
	svc.LoginAlert(context.Background(), user)

	list, err := store.ListNotifications(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	byTitle := map[string]models.Notification{}
	for _, n := range list {
		byTitle[n.Title] = n
	}
	require.Contains(t, byTitle["welcome to our platform"].Message, "Ada")
	require.Contains(t, byTitle["New Login Detected"].Message, "Iceland")
	require.Equal(t, "/profile", byTitle["New Login Detected"].URL)
}

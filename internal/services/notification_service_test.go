package services

import (
	"context"
	"testing"
	"time"

	"github.com/senyabanana/rfq-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.createRFQ(t, company, fixedNow.Add(24*time.Hour))
	second := env.createRFQ(t, company, fixedNow.Add(24*time.Hour))

	list, err := env.notifications.List(ctx, supplier1, "", "")
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, 2, list.Unread)
	assert.Equal(t, second.ID, list.Notifications[0].RelatedID)

	require.NoError(t, env.notifications.MarkRead(ctx, supplier1, list.Notifications[0].ID))
	list, err = env.notifications.List(ctx, supplier1, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Unread)

	err = env.notifications.MarkRead(ctx, supplier2, list.Notifications[1].ID)
	requireKind(t, err, models.ErrNotFound)

	count, err := env.notifications.MarkRelatedRead(ctx, supplier1, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = env.notifications.MarkAllRead(ctx, supplier2)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list, err = env.notifications.List(ctx, supplier2, "", "")
	require.NoError(t, err)
	assert.Zero(t, list.Unread)
}

func TestNotificationService_RequiresUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.notifications.List(ctx, models.Anonymous(), "", "")
	requireKind(t, err, models.ErrPermission)
	err = env.notifications.MarkRead(ctx, models.Anonymous(), "n1")
	requireKind(t, err, models.ErrPermission)
	_, err = env.notifications.MarkAllRead(ctx, models.Anonymous())
	requireKind(t, err, models.ErrPermission)
	_, err = env.notifications.MarkRelatedRead(ctx, supplier1, "")
	requireKind(t, err, models.ErrValidation)
	_, err = env.notifications.List(ctx, supplier1, "abc", "")
	requireKind(t, err, models.ErrValidation)
}
